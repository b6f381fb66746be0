// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"encoding/binary"
	"io"

	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range of rounds, both ends inclusive. A To below From leaves the range open ended.
type Range struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Nil fields match everything.
type Filter struct {
	Kind    *staking.EventKind `json:"kind"`
	Creator *thor.Address      `json:"creator"`
	Staker  *thor.Address      `json:"staker"`
	Range   *Range             `json:"range"`
	Order   Order              `json:"order"` // default asc
	Options *Options           `json:"options"`
}

// Event is a stored staking event.
type Event struct {
	Seq uint64       `json:"seq"`
	ID  thor.Bytes32 `json:"id"`
	*staking.Event
}

// eventID identifies an event by its position in the log and its content.
func eventID(seq uint64, ev *staking.Event) thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], seq)
		w.Write(buf[:])
		w.Write([]byte(ev.Kind))
		binary.BigEndian.PutUint32(buf[:4], ev.Round)
		w.Write(buf[:4])
		binary.BigEndian.PutUint32(buf[:4], ev.Block)
		w.Write(buf[:4])
		if ev.Creator != nil {
			w.Write(ev.Creator.Bytes())
		}
		if ev.Staker != nil {
			w.Write(ev.Staker.Bytes())
		}
		if ev.Amount != nil {
			w.Write(ev.Amount.Bytes())
		}
	})
}
