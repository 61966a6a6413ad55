package payroll

import "context"

type SalaryService interface {
	// Calculate reconciles one employee's attendance against payments made
	// between startDate and endDate (YYYY-MM-DD, both inclusive).
	Calculate(ctx context.Context, employeeID, startDate, endDate string, rate RateConfig) (SalaryCalculation, error)

	// CalculateMany runs Calculate for every employee. Per-employee failures
	// are reported in the matching entry; only an invalid period or rate
	// fails the whole call.
	CalculateMany(ctx context.Context, employeeIDs []string, startDate, endDate string, rate RateConfig) ([]BatchEntry, error)
}
