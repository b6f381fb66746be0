// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/holiman/uint256"

	"github.com/vechain/creator-staking/staking/reverts"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Zero is stored as an empty slot. Add and Sub never wrap.
type Uint256 struct {
	context *Context
	pos     []byte
}

func NewUint256(context *Context, name string) *Uint256 {
	return &Uint256{context: context, pos: context.position(name, nil)}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	raw, err := u.context.state.Get(u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	if value.IsZero() {
		u.context.state.Delete(u.pos)
		return
	}
	u.context.state.Set(u.pos, value.Bytes())
}

func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := storage.AddOverflow(storage, value); overflow {
		return reverts.ErrOverflow
	}
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := storage.SubOverflow(storage, value); underflow {
		return reverts.ErrUnderflow
	}
	u.Set(storage)
	return nil
}
