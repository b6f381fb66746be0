// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vechain/creator-staking/kv"
	"github.com/vechain/creator-staking/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the staking storage on top of a kv store.
// An empty value is treated as absent.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap
}

// New create state object.
func New(store kv.Store) *State {
	state := State{store: store}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.storeGetter(key)
	})
	// base level, never popped by RevertTo
	state.sm.Push()
	return &state
}

// storeGetter implements stackedmap.MapGetter.
func (s *State) storeGetter(key any) (any, bool, error) {
	k, ok := key.(string)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	v, err := s.store.Get([]byte(k))
	if err != nil {
		if s.store.IsNotFound(err) {
			return []byte(nil), true, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// Get returns the raw value for the given key. A missing key yields an empty value.
func (s *State) Get(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// Has returns whether a non-empty value is stored for the key.
func (s *State) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Set sets the raw value for the given key.
func (s *State) Set(key, value []byte) {
	s.sm.Put(string(key), bytes.Clone(value))
}

// Delete removes the key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), []byte(nil))
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(key []byte, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.Set(key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(key []byte, dec func([]byte) error) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// changes returns the latest journaled value per key.
func (s *State) changes() map[string][]byte {
	changes := make(map[string][]byte)
	for _, entry := range s.sm.Journal() {
		changes[entry.Key.(string)] = entry.Value.([]byte)
	}
	return changes
}

// Iterate visits every non-empty key with the given prefix in ascending key order,
// merging committed values with the pending journal. fn returns false to stop.
func (s *State) Iterate(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	merged := make(map[string][]byte)

	it := s.store.Iterate(kv.PrefixRange(prefix))
	for it.Next() {
		merged[string(it.Key())] = bytes.Clone(it.Value())
	}
	it.Release()
	if err := it.Error(); err != nil {
		return &Error{err}
	}

	for k, v := range s.changes() {
		if bytes.HasPrefix([]byte(k), prefix) {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k, v := range merged {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		next, err := fn([]byte(k), merged[k])
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}
	return nil
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	return newStage(s.store, s.changes())
}
