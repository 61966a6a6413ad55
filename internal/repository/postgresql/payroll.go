package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/database"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payroll.PaymentRepository {
	return &paymentRepository{db: db}
}

// ListPayments implements payroll.PaymentRepository.
func (r *paymentRepository) ListPayments(ctx context.Context, employeeID string, period payroll.DateRange) ([]payroll.PaymentRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, payment_date, payment_mode, paid_by, notes
		FROM salary_payments
		WHERE employee_id = $1 AND payment_date BETWEEN $2 AND $3
		ORDER BY payment_date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.PaymentRecord
	for rows.Next() {
		var (
			p    payroll.PaymentRecord
			mode string
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Amount, &p.PaymentDate, &mode, &p.PaidBy, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		p.PaymentMode = payroll.PaymentMode(strings.ToLower(mode))
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary payments: %w", err)
	}

	return payments, nil
}
