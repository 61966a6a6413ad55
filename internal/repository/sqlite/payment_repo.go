package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/google/uuid"
)

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) ListPayments(ctx context.Context, employeeID string, period payroll.DateRange) ([]payroll.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, employee_id, amount, payment_date, payment_mode, paid_by, notes
		FROM salary_payments
		WHERE employee_id = ? AND payment_date BETWEEN ? AND ?
		ORDER BY payment_date, id`,
		employeeID, period.Start.Format(payroll.DateLayout), period.End.Format(payroll.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.PaymentRecord
	for rows.Next() {
		var (
			p          payroll.PaymentRecord
			date, mode string
			notes      sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Amount, &date, &mode, &p.PaidBy, &notes); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}

		p.PaymentDate, err = time.Parse(payroll.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse payment date %q: %w", date, err)
		}
		p.PaymentMode = payroll.PaymentMode(strings.ToLower(mode))
		if notes.Valid {
			p.Notes = &notes.String
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// InsertPayments stores payments in one transaction and returns their IDs in
// input order. Payments without an ID get a time-ordered UUID.
func (r *PaymentRepo) InsertPayments(ctx context.Context, payments []payroll.PaymentRecord) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO salary_payments
		(id, employee_id, amount, payment_date, payment_mode, paid_by, notes)
		VALUES (?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		id := p.ID
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				return nil, fmt.Errorf("generate payment id: %w", err)
			}
			id = v7.String()
		}

		if _, err := stmt.ExecContext(ctx,
			id, p.EmployeeID, p.Amount.String(), p.PaymentDate.Format(payroll.DateLayout),
			string(p.PaymentMode), p.PaidBy, nullable(p.Notes),
		); err != nil {
			return nil, fmt.Errorf("insert payment %s: %w", id, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}
