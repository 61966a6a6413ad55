package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/config"
	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-reconciler/internal/repository/sqlite"
	salaryService "github.com/cmlabs-hris/payroll-reconciler/internal/service/payroll"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

type testServer struct {
	router     *chi.Mux
	jwtService jwt.Service
	employeeID string
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employeeRepo := sqlite.NewEmployeeRepo(db)
	attendanceRepo := sqlite.NewAttendanceRepo(db)
	paymentRepo := sqlite.NewPaymentRepo(db)

	employeeID, err := employeeRepo.InsertEmployee(ctx, payroll.Employee{
		Name:         "Dewi Lestari",
		Designation:  "Cashier",
		EmployeeCode: "EMP-007",
	})
	require.NoError(t, err)

	day := func(s string) time.Time {
		d, err := time.Parse(payroll.DateLayout, s)
		require.NoError(t, err)
		return d
	}
	_, err = attendanceRepo.InsertAttendance(ctx, []payroll.AttendanceRecord{
		{EmployeeID: employeeID, Date: day("2024-03-01"), Status: payroll.AttendanceStatusPresent},
		{EmployeeID: employeeID, Date: day("2024-03-02"), Status: payroll.AttendanceStatusPresent},
		{EmployeeID: employeeID, Date: day("2024-03-03"), Status: payroll.AttendanceStatusHalfDay},
	})
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	svc := salaryService.NewSalaryService(attendanceRepo, paymentRepo, employeeRepo)
	cfg := &config.Config{App: config.AppConfig{Env: "test", LogLevel: "error"}}

	return &testServer{
		router:     NewRouter(cfg, jwtSvc, NewSalaryHandler(svc)),
		jwtService: jwtSvc,
		employeeID: employeeID,
	}
}

func (s *testServer) token(t *testing.T, role auth.Role) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken("user-1", role)
	require.NoError(t, err)
	return token
}

func (s *testServer) post(t *testing.T, path string, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func calculateBody(employeeID, start, end string) map[string]interface{} {
	return map[string]interface{}{
		"employee_id": employeeID,
		"start_date":  start,
		"end_date":    end,
		"rate":        map[string]interface{}{"daily_rate": "500"},
	}
}

// ===== HANDLER TESTS =====

func TestSalaryHandler_Calculate_Success(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.post(t, "/api/v1/payroll/salary/calculate", srv.token(t, auth.RoleManager),
		calculateBody(srv.employeeID, "2024-03-01", "2024-03-31"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var data payroll.SalaryCalculationResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, srv.employeeID, data.Employee.ID)
	assert.Equal(t, "EMP-007", data.Employee.EmployeeCode)
	assert.Equal(t, 31, data.Period.TotalCalendarDays)
	assert.Equal(t, "2.5", data.Period.WorkingDays.String())
	assert.Equal(t, "daily", data.Rates.Model)
	assert.Equal(t, "1250.00", data.Financial.GrossSalary)
	assert.Equal(t, "0.00", data.Financial.TotalPayments)
	assert.Equal(t, "1250.00", data.Financial.NetSalary)
	assert.Equal(t, "DUE", data.Financial.NetSalaryStatus)
	assert.Equal(t, "1250.00", data.Financial.NetSalaryDisplay)
	assert.Len(t, data.Attendance.Records, 3)
}

func TestSalaryHandler_Calculate_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.post(t, "/api/v1/payroll/salary/calculate", "",
		calculateBody(srv.employeeID, "2024-03-01", "2024-03-31"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestSalaryHandler_Calculate_ForbiddenForEmployees(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.post(t, "/api/v1/payroll/salary/calculate", srv.token(t, auth.RoleEmployee),
		calculateBody(srv.employeeID, "2024-03-01", "2024-03-31"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestSalaryHandler_Calculate_RevokedToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, auth.RoleOwner)
	srv.jwtService.RevokeToken(token)

	rec, _ := srv.post(t, "/api/v1/payroll/salary/calculate", token,
		calculateBody(srv.employeeID, "2024-03-01", "2024-03-31"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSalaryHandler_Calculate_Errors(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, auth.RoleOwner)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"employee_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name: "missing rate",
			body: map[string]interface{}{
				"employee_id": srv.employeeID,
				"start_date":  "2024-03-01",
				"end_date":    "2024-03-31",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "rate",
		},
		{
			name: "both rates",
			body: map[string]interface{}{
				"employee_id": srv.employeeID,
				"start_date":  "2024-03-01",
				"end_date":    "2024-03-31",
				"rate":        map[string]interface{}{"daily_rate": "500", "hourly_rate": "60", "daily_hours": "8"},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "rate",
		},
		{
			name:       "bad date format",
			body:       calculateBody(srv.employeeID, "03/01/2024", "2024-03-31"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "start_date",
		},
		{
			name:       "start after end",
			body:       calculateBody(srv.employeeID, "2024-03-31", "2024-03-01"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name: "non-positive rate",
			body: map[string]interface{}{
				"employee_id": srv.employeeID,
				"start_date":  "2024-03-01",
				"end_date":    "2024-03-31",
				"rate":        map[string]interface{}{"daily_rate": "0"},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown employee",
			body:       calculateBody("no-such-employee", "2024-03-01", "2024-03-31"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := srv.post(t, "/api/v1/payroll/salary/calculate", token, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			if tt.wantField != "" {
				assert.Contains(t, env.Error.Details, tt.wantField)
			}
		})
	}
}

func TestSalaryHandler_CalculateBatch(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"employee_ids": []string{srv.employeeID, "no-such-employee"},
		"start_date":   "2024-03-01",
		"end_date":     "2024-03-31",
		"rate":         map[string]interface{}{"hourly_rate": "62.5", "daily_hours": "8"},
	}
	rec, env := srv.post(t, "/api/v1/payroll/salary/calculate-batch", srv.token(t, auth.RoleOwner), body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1 of 2 salary calculations succeeded", env.Message)

	var entries []payroll.BatchEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, srv.employeeID, entries[0].EmployeeID)
	assert.True(t, entries[0].Success)
	require.NotNil(t, entries[0].Data)
	// 8 + 8 + 4 hours at 62.5
	assert.Equal(t, "1250.00", entries[0].Data.Financial.GrossSalary)

	assert.Equal(t, "no-such-employee", entries[1].EmployeeID)
	assert.False(t, entries[1].Success)
	require.NotNil(t, entries[1].Error)
	assert.Equal(t, string(payroll.ErrorKindEmployeeNotFound), entries[1].Error.Kind)
}

func TestSalaryHandler_CalculateBatch_RequiresEmployees(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"employee_ids": []string{},
		"start_date":   "2024-03-01",
		"end_date":     "2024-03-31",
		"rate":         map[string]interface{}{"daily_rate": "500"},
	}
	rec, env := srv.post(t, "/api/v1/payroll/salary/calculate-batch", srv.token(t, auth.RoleOwner), body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "employee_ids")
}

func TestRouter_Heartbeat(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
