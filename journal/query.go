package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetOrder returns a single audit record by order id.
func (j *SQLiteJournal) GetOrder(orderID string) (OrderRecord, error) {
	var rec OrderRecord

	row := j.db.QueryRow(`
		SELECT logged, order_id, symbol, side, quantity, price, status, reason
		FROM orders
		WHERE order_id = ?`, orderID)

	err := row.Scan(
		&rec.Logged,
		&rec.OrderID,
		&rec.Symbol,
		&rec.Side,
		&rec.Quantity,
		&rec.Price,
		&rec.Status,
		&rec.Reason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderRecord{}, fmt.Errorf("order %q not found", orderID)
		}
		return OrderRecord{}, err
	}
	return rec, nil
}

// ListOrdersBySymbol returns a symbol's audit records in id (submission)
// order, optionally filtered by terminal status ("" means all).
func (j *SQLiteJournal) ListOrdersBySymbol(symbol, status string) ([]OrderRecord, error) {
	query := `
		SELECT logged, order_id, symbol, side, quantity, price, status, reason
		FROM orders
		WHERE symbol = ?`
	args := []any{symbol}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY order_id ASC`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.Logged,
			&rec.OrderID,
			&rec.Symbol,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Status,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity samples with time within [start, end).
func (j *SQLiteJournal) ListEquityBetween(start, end time.Time) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, equity
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		if err := rows.Scan(&rec.Time, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
