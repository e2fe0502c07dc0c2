// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/ledger"
	"github.com/vechain/masterchef/xenv"
)

// EventDB stores farm notifications and token transfers of committed blocks.
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
	// a memory db lives as long as its only connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite library.
func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// NewBatch creates a batch collecting the records of the block.
func (db *EventDB) NewBatch(blockCtx *xenv.BlockContext) *BlockBatch {
	return &BlockBatch{
		db:       db.db,
		blockCtx: blockCtx,
	}
}

// LastBlockNumber returns the highest block number having records.
func (db *EventDB) LastBlockNumber(ctx context.Context) (uint32, error) {
	var num sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(n) FROM (SELECT MAX(blockNumber) AS n FROM event UNION ALL SELECT MAX(blockNumber) AS n FROM transfer)").Scan(&num); err != nil {
		return 0, err
	}
	return uint32(num.Int64), nil
}

func appendRange(stmt string, args []any, rng *Range) (string, []any) {
	if rng == nil {
		return stmt, args
	}
	condition := "blockNumber"
	if rng.Unit == Time {
		condition = "blockTime"
	}
	args = append(args, rng.From)
	stmt += " AND " + condition + " >= ?"
	if rng.To >= rng.From {
		args = append(args, rng.To)
		stmt += " AND " + condition + " <= ?"
	}
	return stmt, args
}

func appendOrder(stmt string, args []any, order Order, indexColumn string, options *Options) (string, []any) {
	if order == DESC {
		stmt += " ORDER BY blockNumber DESC, " + indexColumn + " DESC"
	} else {
		stmt += " ORDER BY blockNumber ASC, " + indexColumn + " ASC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

func (db *EventDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY blockNumber, eventIndex")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)

	var clauses []string
	for _, criteria := range filter.CriteriaSet {
		clause := "( 1"
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			clause += " AND name = ?"
		}
		if criteria.PoolID != nil {
			args = append(args, *criteria.PoolID)
			clause += " AND poolID = ?"
		}
		if criteria.User != nil {
			args = append(args, criteria.User.Bytes())
			clause += " AND user = ?"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.String())
			clause += " AND token = ?"
		}
		clauses = append(clauses, clause+" )")
	}
	if len(clauses) > 0 {
		stmt += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	stmt, args = appendOrder(stmt, args, filter.Order, "eventIndex", filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer ORDER BY blockNumber, transferIndex")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var args []any
	stmt := "SELECT * FROM transfer WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ?"
	}

	var clauses []string
	for _, criteria := range filter.CriteriaSet {
		clause := "( 1"
		if criteria.TxOrigin != nil {
			args = append(args, criteria.TxOrigin.Bytes())
			clause += " AND txOrigin = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			clause += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			clause += " AND recipient = ?"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.String())
			clause += " AND token = ?"
		}
		clauses = append(clauses, clause+" )")
	}
	if len(clauses) > 0 {
		stmt += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	stmt, args = appendOrder(stmt, args, filter.Order, "transferIndex", filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			event    Event
			txID     []byte
			txOrigin []byte
			user     []byte
			token    string
			amount   []byte
		)
		if err := rows.Scan(
			&event.BlockNumber,
			&event.Index,
			&event.BlockTime,
			&txID,
			&txOrigin,
			&event.Name,
			&event.PoolID,
			&user,
			&token,
			&amount,
		); err != nil {
			return nil, err
		}
		event.TxID = chef.BytesToBytes32(txID)
		event.TxOrigin = chef.BytesToAddress(txOrigin)
		event.User = chef.BytesToAddress(user)
		event.Token = chef.TokenID(token)
		event.Amount = new(big.Int).SetBytes(amount)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *EventDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			transfer  Transfer
			txID      []byte
			txOrigin  []byte
			sender    []byte
			recipient []byte
			token     string
			amount    []byte
		)
		if err := rows.Scan(
			&transfer.BlockNumber,
			&transfer.Index,
			&transfer.BlockTime,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&token,
			&amount,
			&transfer.Memo,
		); err != nil {
			return nil, err
		}
		transfer.TxID = chef.BytesToBytes32(txID)
		transfer.TxOrigin = chef.BytesToAddress(txOrigin)
		transfer.Sender = chef.BytesToAddress(sender)
		transfer.Recipient = chef.BytesToAddress(recipient)
		transfer.Token = chef.TokenID(token)
		transfer.Amount = new(big.Int).SetBytes(amount)
		transfers = append(transfers, &transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func amountValue(amount *big.Int) []byte {
	if amount == nil {
		return nil
	}
	return amount.Bytes()
}

// BlockBatch collects the records of one block and writes them in a single sql transaction.
type BlockBatch struct {
	db        *sql.DB
	blockCtx  *xenv.BlockContext
	events    []*Event
	transfers []*Transfer
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert appends the records of a transaction.
func (bb *BlockBatch) Insert(txID chef.Bytes32, txOrigin chef.Address, events []*farm.Event, transfers []*ledger.Transfer) *BlockBatch {
	for _, ev := range events {
		bb.events = append(bb.events, newEvent(bb.blockCtx, uint32(len(bb.events)), txID, txOrigin, ev))
	}
	for _, transfer := range transfers {
		bb.transfers = append(bb.transfers, newTransfer(bb.blockCtx, uint32(len(bb.transfers)), txID, txOrigin, transfer))
	}
	return bb
}

// Commit writes the batch. Records left by an earlier attempt at this block or above are replaced.
func (bb *BlockBatch) Commit() error {
	return bb.execInTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM event WHERE blockNumber >= ?", bb.blockCtx.Number); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM transfer WHERE blockNumber >= ?", bb.blockCtx.Number); err != nil {
			return err
		}
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT INTO event(blockNumber, eventIndex, blockTime, txID, txOrigin, name, poolID, user, token, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Name,
				event.PoolID,
				event.User.Bytes(),
				event.Token.String(),
				amountValue(event.Amount),
			); err != nil {
				return err
			}
		}
		for _, transfer := range bb.transfers {
			if _, err := tx.Exec("INSERT INTO transfer(blockNumber, transferIndex, blockTime, txID, txOrigin, sender, recipient, token, amount, memo) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				transfer.BlockNumber,
				transfer.Index,
				transfer.BlockTime,
				transfer.TxID.Bytes(),
				transfer.TxOrigin.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Token.String(),
				amountValue(transfer.Amount),
				transfer.Memo,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
