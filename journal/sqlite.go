package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal keeps the audit trail queryable after the run; see query.go
// for the read side.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordOrder(r OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(logged, order_id, symbol, side, quantity, price, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Logged, r.OrderID, r.Symbol, r.Side, r.Quantity, r.Price, r.Status, r.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(r EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, equity) VALUES (?, ?)`,
		r.Time, r.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
