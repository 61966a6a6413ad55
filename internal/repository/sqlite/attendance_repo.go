package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
)

type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

func (r *AttendanceRepo) ListAttendance(ctx context.Context, employeeID string, period payroll.DateRange) ([]payroll.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT employee_id, date, status, check_in_time, check_out_time
		FROM attendance_records
		WHERE employee_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`,
		employeeID, period.Start.Format(payroll.DateLayout), period.End.Format(payroll.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var records []payroll.AttendanceRecord
	for rows.Next() {
		var (
			rec               payroll.AttendanceRecord
			date, status      string
			checkIn, checkOut sql.NullString
		)
		if err := rows.Scan(&rec.EmployeeID, &date, &status, &checkIn, &checkOut); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}

		rec.Date, err = time.Parse(payroll.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse attendance date %q: %w", date, err)
		}
		rec.Status = payroll.ParseAttendanceStatus(status)
		if checkIn.Valid {
			rec.CheckInTime = &checkIn.String
		}
		if checkOut.Valid {
			rec.CheckOutTime = &checkOut.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InsertAttendance stores records in one transaction. A record for an
// (employee, date) pair that already exists replaces it.
func (r *AttendanceRepo) InsertAttendance(ctx context.Context, records []payroll.AttendanceRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO attendance_records
		(employee_id, date, status, check_in_time, check_out_time)
		VALUES (?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		if _, err := stmt.ExecContext(ctx,
			rec.EmployeeID, rec.Date.Format(payroll.DateLayout), string(rec.Status),
			nullable(rec.CheckInTime), nullable(rec.CheckOutTime),
		); err != nil {
			return 0, fmt.Errorf("insert attendance %s/%s: %w", rec.EmployeeID, rec.Date.Format(payroll.DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
