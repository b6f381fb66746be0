// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sort"

	"github.com/vechain/creator-staking/kv"
)

// Stage abstracts changes on the staking storage.
type Stage struct {
	store   kv.Store
	keys    []string
	changes map[string][]byte
}

func newStage(store kv.Store, changes map[string][]byte) *Stage {
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Stage{store: store, keys: keys, changes: changes}
}

// Len returns count of staged keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all staged changes to the store in one batch.
func (s *Stage) Commit() error {
	batch := s.store.NewBatch()
	var puts, deletes int64
	for _, k := range s.keys {
		v := s.changes[k]
		if len(v) == 0 {
			if err := batch.Delete([]byte(k)); err != nil {
				return &Error{err}
			}
			deletes++
			continue
		}
		if err := batch.Put([]byte(k), v); err != nil {
			return &Error{err}
		}
		puts++
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	metricStateWrites().AddWithLabel(puts, map[string]string{"op": "put"})
	metricStateWrites().AddWithLabel(deletes, map[string]string{"op": "delete"})
	return nil
}
