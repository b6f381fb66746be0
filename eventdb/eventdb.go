// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

var logger = log.WithContext("pkg", "eventdb")

// EventDB is the queryable log of committed staking events.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives in a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("opened event db", "path", path, "sqlite", driverVer)
	return &EventDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Path return db's file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close close sqlite.
func (db *EventDB) Close() error {
	return db.db.Close()
}

// Insert appends events in order, in a single transaction.
func (db *EventDB) Insert(ctx context.Context, events []*staking.Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&last); err != nil {
		return err
	}
	seq := uint64(last.Int64)
	for _, ev := range events {
		seq++
		var amount any
		if ev.Amount != nil {
			amount = ev.Amount.Dec()
		}
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO event(seq, id, kind, round, block, creator, staker, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			seq,
			eventID(seq, ev).Bytes(),
			string(ev.Kind),
			ev.Round,
			ev.Block,
			addressValue(ev.Creator),
			addressValue(ev.Staker),
			amount,
		); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	metricInserted().Add(int64(len(events)))
	return nil
}

// Count returns the number of stored events.
func (db *EventDB) Count(ctx context.Context) (n uint64, err error) {
	err = db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n)
	return
}

// Filter return events with options.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT seq, id, kind, round, block, creator, staker, amount FROM event"
	if filter == nil {
		return db.query(ctx, query+" ORDER BY seq ASC")
	}

	var args []any
	stmt := query + " WHERE 1"
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		stmt += " AND kind = ?"
	}
	if filter.Creator != nil {
		args = append(args, filter.Creator.Bytes())
		stmt += " AND creator = ?"
	}
	if filter.Staker != nil {
		args = append(args, filter.Staker.Bytes())
		stmt += " AND staker = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND round >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND round <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			seq     uint64
			id      []byte
			kind    string
			round   uint32
			block   uint32
			creator []byte
			staker  []byte
			amount  sql.NullString
		)
		if err := rows.Scan(&seq, &id, &kind, &round, &block, &creator, &staker, &amount); err != nil {
			return nil, err
		}
		ev := &staking.Event{
			Kind:    staking.EventKind(kind),
			Round:   round,
			Block:   block,
			Creator: addressPtr(creator),
			Staker:  addressPtr(staker),
		}
		if amount.Valid {
			if ev.Amount, err = uint256.FromDecimal(amount.String); err != nil {
				return nil, errors.Wrapf(err, "decode amount of event %d", seq)
			}
		}
		events = append(events, &Event{Seq: seq, ID: thor.BytesToBytes32(id), Event: ev})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func addressValue(addr *thor.Address) []byte {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}

func addressPtr(b []byte) *thor.Address {
	if len(b) == 0 {
		return nil
	}
	addr := thor.BytesToAddress(b)
	return &addr
}
