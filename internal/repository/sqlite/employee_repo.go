package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/google/uuid"
)

type EmployeeRepo struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

func (r *EmployeeRepo) GetEmployee(ctx context.Context, id string) (payroll.Employee, error) {
	var emp payroll.Employee
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, designation, employee_code
		FROM employees
		WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.EmployeeCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.Employee{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

// InsertEmployee stores emp and returns its ID, generating one when empty.
func (r *EmployeeRepo) InsertEmployee(ctx context.Context, emp payroll.Employee) (string, error) {
	if emp.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generate employee id: %w", err)
		}
		emp.ID = id.String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (id, employee_code, full_name, designation) VALUES (?,?,?,?)`,
		emp.ID, emp.EmployeeCode, emp.Name, emp.Designation,
	)
	if err != nil {
		return "", fmt.Errorf("insert employee: %w", err)
	}
	return emp.ID, nil
}

// DeleteEmployee soft-deletes an employee; history stays in place.
func (r *EmployeeRepo) DeleteEmployee(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	return err
}
