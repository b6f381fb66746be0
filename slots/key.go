// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import "encoding/binary"

type Key interface {
	Bytes() []byte
}

// Index is a uint32 mapping key, encoded big-endian so iteration follows numeric order.
type Index uint32

func (i Index) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(i))
}

// ParseIndex decodes a key produced by Index.Bytes.
func ParseIndex(b []byte) (Index, bool) {
	if len(b) != 4 {
		return 0, false
	}
	return Index(binary.BigEndian.Uint32(b)), true
}
