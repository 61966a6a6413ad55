package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	payrollservice "github.com/cmlabs-hris/payroll-reconciler/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustDate(s string) time.Time {
	d, err := time.Parse(payroll.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(s string) *string {
	return &s
}

func seed(t *testing.T, ctx context.Context, db *sql.DB) string {
	t.Helper()

	employeeID, err := NewEmployeeRepo(db).InsertEmployee(ctx, payroll.Employee{
		Name:         "Budi Santoso",
		Designation:  "Welder",
		EmployeeCode: "EMP-042",
	})
	require.NoError(t, err)

	n, err := NewAttendanceRepo(db).InsertAttendance(ctx, []payroll.AttendanceRecord{
		{EmployeeID: employeeID, Date: mustDate("2024-02-29"), Status: payroll.AttendanceStatusPresent},
		{EmployeeID: employeeID, Date: mustDate("2024-03-01"), Status: payroll.AttendanceStatusPresent, CheckInTime: ptr("22:00"), CheckOutTime: ptr("06:00")},
		{EmployeeID: employeeID, Date: mustDate("2024-03-04"), Status: payroll.AttendanceStatusHalfDay},
		{EmployeeID: employeeID, Date: mustDate("2024-03-05"), Status: payroll.AttendanceStatusAbsent},
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = NewPaymentRepo(db).InsertPayments(ctx, []payroll.PaymentRecord{
		{EmployeeID: employeeID, Amount: decimal.RequireFromString("100.10"), PaymentDate: mustDate("2024-03-10"), PaymentMode: payroll.PaymentModeCash, PaidBy: "hr", Notes: ptr("advance")},
		{EmployeeID: employeeID, Amount: decimal.RequireFromString("999"), PaymentDate: mustDate("2024-04-01"), PaymentMode: payroll.PaymentModeOnline, PaidBy: "hr"},
	})
	require.NoError(t, err)

	return employeeID
}

func TestInitDB_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, createTables(db))
}

func TestEmployeeRepo_GetEmployee(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewEmployeeRepo(db)
	employeeID := seed(t, ctx, db)

	_, err := uuid.Parse(employeeID)
	require.NoError(t, err, "generated employee id must be a uuid")

	emp, err := repo.GetEmployee(ctx, employeeID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", emp.Name)
	assert.Equal(t, "Welder", emp.Designation)
	assert.Equal(t, "EMP-042", emp.EmployeeCode)

	_, err = repo.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	require.NoError(t, repo.DeleteEmployee(ctx, employeeID))
	_, err = repo.GetEmployee(ctx, employeeID)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
}

func TestAttendanceRepo_ListAttendance(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	employeeID := seed(t, ctx, db)

	records, err := NewAttendanceRepo(db).ListAttendance(ctx, employeeID, payroll.DateRange{
		Start: mustDate("2024-03-01"),
		End:   mustDate("2024-03-31"),
	})

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, mustDate("2024-03-01"), records[0].Date)
	require.NotNil(t, records[0].CheckInTime)
	assert.Equal(t, "22:00", *records[0].CheckInTime)
	assert.Equal(t, payroll.AttendanceStatusHalfDay, records[1].Status)
	assert.Nil(t, records[1].CheckInTime)
	assert.Equal(t, payroll.AttendanceStatusAbsent, records[2].Status)
}

func TestAttendanceRepo_InsertAttendance_ReplacesSameDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	employeeID := seed(t, ctx, db)
	repo := NewAttendanceRepo(db)

	_, err := repo.InsertAttendance(ctx, []payroll.AttendanceRecord{
		{EmployeeID: employeeID, Date: mustDate("2024-03-05"), Status: payroll.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	records, err := repo.ListAttendance(ctx, employeeID, payroll.DateRange{Start: mustDate("2024-03-05"), End: mustDate("2024-03-05")})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, payroll.AttendanceStatusPresent, records[0].Status)
}

func TestPaymentRepo_ListPayments(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	employeeID := seed(t, ctx, db)

	payments, err := NewPaymentRepo(db).ListPayments(ctx, employeeID, payroll.DateRange{
		Start: mustDate("2024-03-01"),
		End:   mustDate("2024-03-31"),
	})

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.NotEmpty(t, payments[0].ID)
	assert.Equal(t, "100.1", payments[0].Amount.String())
	assert.Equal(t, payroll.PaymentModeCash, payments[0].PaymentMode)
	require.NotNil(t, payments[0].Notes)
	assert.Equal(t, "advance", *payments[0].Notes)
}

func TestPaymentRepo_InsertPayments_KeepsGivenID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	employeeID := seed(t, ctx, db)

	ids, err := NewPaymentRepo(db).InsertPayments(ctx, []payroll.PaymentRecord{
		{ID: "pay-1", EmployeeID: employeeID, Amount: decimal.NewFromInt(1), PaymentDate: mustDate("2024-03-02"), PaymentMode: payroll.PaymentModeCash, PaidBy: "hr"},
		{EmployeeID: employeeID, Amount: decimal.NewFromInt(2), PaymentDate: mustDate("2024-03-03"), PaymentMode: payroll.PaymentModeCash, PaidBy: "hr"},
	})

	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "pay-1", ids[0])
	parsed, err := uuid.Parse(ids[1])
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSalaryService_WithSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	employeeID := seed(t, ctx, db)

	svc := payrollservice.NewSalaryService(NewAttendanceRepo(db), NewPaymentRepo(db), NewEmployeeRepo(db))

	result, err := svc.Calculate(ctx, employeeID, "2024-03-01", "2024-03-31", payroll.NewDailyRate(decimal.NewFromInt(200)))

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attendance.TotalRecords)
	assert.Equal(t, "1.5", result.Period.WorkingDays.String())
	assert.Equal(t, "300.00", result.Financial.GrossSalary.StringFixed(2))
	assert.Equal(t, "100.10", result.Financial.TotalPayments.StringFixed(2))
	assert.Equal(t, "199.90", result.Financial.NetSalary.StringFixed(2))
	assert.Equal(t, payroll.NetSalaryStatusDue, result.Financial.NetSalaryStatus)

	entries, err := svc.CalculateMany(ctx, []string{employeeID, "missing"}, "2024-03-01", "2024-03-31", payroll.NewDailyRate(decimal.NewFromInt(200)))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NoError(t, entries[0].Err)
	assert.ErrorIs(t, entries[1].Err, payroll.ErrEmployeeNotFound)
}
