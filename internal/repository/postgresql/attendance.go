package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) payroll.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// ListAttendance implements payroll.AttendanceRepository.
func (r *attendanceRepository) ListAttendance(ctx context.Context, employeeID string, period payroll.DateRange) ([]payroll.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, status,
			   to_char(check_in_time, 'HH24:MI'), to_char(check_out_time, 'HH24:MI')
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []payroll.AttendanceRecord
	for rows.Next() {
		var (
			rec    payroll.AttendanceRecord
			status string
		)
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &status, &rec.CheckInTime, &rec.CheckOutTime); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.Status = payroll.ParseAttendanceStatus(status)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance records: %w", err)
	}

	return records, nil
}
