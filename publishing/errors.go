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

package publishing

import (
	"errors"

	"github.com/paperdao/papergov/ballot"
)

var (
	ErrNotFound             = errors.New("paper not found")
	ErrAlreadyPublished     = errors.New("paper has already been published")
	ErrStakeTransferFailed  = errors.New("stake transfer denied by token service")
	ErrRewardTransferFailed = errors.New("reward transfer denied by token service")
)

// ErrAlreadyVoted is shared with the permissioned variant.
var ErrAlreadyVoted = ballot.ErrAlreadyVoted
