package payroll

import "context"

// AttendanceRepository returns attendance already scoped to one employee and
// an inclusive date range, ordered by date.
type AttendanceRepository interface {
	ListAttendance(ctx context.Context, employeeID string, period DateRange) ([]AttendanceRecord, error)
}

// PaymentRepository returns payments scoped the same way as attendance.
type PaymentRepository interface {
	ListPayments(ctx context.Context, employeeID string, period DateRange) ([]PaymentRecord, error)
}

// EmployeeRepository resolves employees. GetEmployee returns
// ErrEmployeeNotFound when no employee has the given ID.
type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
}
