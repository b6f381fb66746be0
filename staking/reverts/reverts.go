// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a caller-correctable failure. It is always raised before the first write.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// validation errors
var (
	ErrCreatorDNE               = New("creator does not exist")
	ErrStakerDNE                = New("staker does not exist")
	ErrCreatorAlreadyRegistered = New("creator already registered")
	ErrCreatorHasStake          = New("creator still has stake")
	ErrNotStakedForCreator      = New("not staked for creator")
	ErrStakeTooLow              = New("stake is below the minimum")
	ErrRemainingStakeTooLow     = New("remaining stake is below the minimum")
	ErrUnstakingWithNoValue     = New("unstaking with no value")
	ErrInsufficientBalance      = New("insufficient balance")
	ErrTooManyChunks            = New("too many unlocking chunks")
	ErrRoundNumberOutOfBounds   = New("round number out of bounds")
)

// arithmetic errors, never saturated
var (
	ErrOverflow  = New("arithmetic overflow")
	ErrUnderflow = New("arithmetic underflow")
)

// ErrSnapshotExists is raised when a round snapshot would be overwritten.
// It is not a revert: it means the stored history is inconsistent.
var ErrSnapshotExists = errors.New("round snapshot already exists")
