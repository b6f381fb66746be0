// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the staking storage.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	         |
//	  [ read-only kv ]
//
// Every mutation is journaled so that a failed operation can be reverted
// to the checkpoint taken before it. Nothing reaches the underlying store
// until the stage is committed, and a stage is written in a single batch.
package state
