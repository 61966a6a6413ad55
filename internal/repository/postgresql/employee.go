package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) payroll.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetEmployee implements payroll.EmployeeRepository. Soft-deleted employees
// are not found.
func (r *employeeRepository) GetEmployee(ctx context.Context, id string) (payroll.Employee, error) {
	// Employee IDs are UUID columns; anything else cannot match a row.
	if _, err := uuid.Parse(id); err != nil {
		return payroll.Employee{}, payroll.ErrEmployeeNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.full_name, COALESCE(p.name, ''), e.employee_code
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	var emp payroll.Employee
	err := q.QueryRow(ctx, query, id).Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.EmployeeCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Employee{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}
