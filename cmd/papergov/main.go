// Copyright 2026 The papergov Authors
// This file is part of the papergov library.
//
// The papergov library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The papergov library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the papergov library. If not, see <http://www.gnu.org/licenses/>.

// papergov is a thin driver around the governance engines: it writes a
// starter configuration and runs a scripted review round against an
// in-memory installation so a deployment can be inspected end to end.
package main

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/paperdao/papergov/internal/config"
	"github.com/paperdao/papergov/governance"
	"github.com/paperdao/papergov/publishing"
	"github.com/paperdao/papergov/token"
)

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))

	app := &cli.App{
		Name:  "papergov",
		Usage: "decentralized paper-review governance engine",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a starter configuration file",
				ArgsUsage: "<path>",
				Action:    initConfig,
			},
			{
				Name:  "demo",
				Usage: "run a scripted review round over both variants",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "configuration file (defaults apply when omitted)",
					},
				},
				Action: runDemo,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: papergov init <path>")
	}
	path := ctx.Args().First()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config.Default()); err != nil {
		return err
	}
	log.Info("Wrote starter configuration", "path", path)
	return nil
}

func runDemo(ctx *cli.Context) error {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var (
		author    = common.HexToAddress("0xa0")
		reviewers = []common.Address{
			common.HexToAddress("0x1"),
			common.HexToAddress("0x2"),
			common.HexToAddress("0x3"),
		}
		now = uint64(time.Now().Unix())
	)
	registryConfig := cfg.RegistryConfig()
	if len(registryConfig.Reviewers) == 0 {
		registryConfig.Reviewers = reviewers
		registryConfig.Quorum = 2
	}

	// Permissioned round: submit, two yes votes, execute.
	engine, err := governance.NewEngine(governance.NewReviewerRegistry(registryConfig), rawdb.NewMemoryDatabase())
	if err != nil {
		return err
	}
	defer engine.Close()

	id, err := engine.Submit(author, "Example Paper", "A demonstration submission", "QmDemo", now)
	if err != nil {
		return err
	}
	for _, reviewer := range registryConfig.Reviewers[:2] {
		if err := engine.Vote(id, reviewer, true); err != nil {
			return err
		}
	}
	if err := engine.Execute(id, registryConfig.Reviewers[0]); err != nil {
		return err
	}

	// Stake-based round against a seeded token ledger.
	ledgerConfig, err := cfg.LedgerConfig()
	if err != nil {
		return err
	}
	tokens := token.NewLedger()
	funding := new(big.Int).Mul(ledgerConfig.StakeAmount, big.NewInt(10))
	for _, voter := range reviewers {
		if err := tokens.Mint(voter, funding); err != nil {
			return err
		}
		if err := tokens.Approve(voter, ledgerConfig.Custody, funding); err != nil {
			return err
		}
	}
	if err := tokens.Mint(ledgerConfig.Custody, new(big.Int).Mul(ledgerConfig.RewardAmount, big.NewInt(10))); err != nil {
		return err
	}

	ledger, err := publishing.NewLedger(ledgerConfig, tokens.Bind(ledgerConfig.Custody), rawdb.NewMemoryDatabase())
	if err != nil {
		return err
	}
	defer ledger.Close()

	paperID, err := ledger.SubmitPaper(author, "Example Paper", "A demonstration submission", "QmDemo", now)
	if err != nil {
		return err
	}
	for i, voter := range reviewers {
		if err := ledger.StakeAndVote(paperID, voter, i < 2); err != nil {
			return err
		}
	}
	paid, err := ledger.DistributeRewards(paperID)
	if err != nil {
		return err
	}

	log.Info("Demo round complete", "proposal", id, "paper", paperID, "rewardPaid", paid,
		"authorBalance", tokens.BalanceOf(author))
	return nil
}
