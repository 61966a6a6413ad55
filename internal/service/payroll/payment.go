package payroll

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type PaymentAggregator struct {
}

func NewPaymentAggregator() *PaymentAggregator {
	return &PaymentAggregator{}
}

// Filter keeps the payments made to employeeID within period. Negative
// amounts are dropped.
func (a *PaymentAggregator) Filter(employeeID string, period payroll.DateRange, payments []payroll.PaymentRecord) []payroll.PaymentRecord {
	kept := make([]payroll.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.EmployeeID != employeeID || !period.Contains(p.PaymentDate) {
			continue
		}
		if p.Amount.IsNegative() {
			slog.Warn("dropping negative salary payment",
				"payment_id", p.ID,
				"employee_id", p.EmployeeID,
				"amount", p.Amount.String(),
			)
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func (a *PaymentAggregator) TotalPaid(employeeID string, period payroll.DateRange, payments []payroll.PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.Filter(employeeID, period, payments) {
		total = total.Add(p.Amount)
	}
	return total
}
