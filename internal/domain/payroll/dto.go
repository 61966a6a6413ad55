package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type RateConfigRequest struct {
	DailyRate  *decimal.Decimal `json:"daily_rate,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyHours *decimal.Decimal `json:"daily_hours,omitempty"`
}

// ToRateConfig picks the model from whichever rate is present. Presence of
// both or neither is left for RateConfig validation in the service.
func (r RateConfigRequest) ToRateConfig() RateConfig {
	var cfg RateConfig
	switch {
	case r.DailyRate != nil && r.HourlyRate == nil:
		cfg = RateConfig{Model: RateModelDaily, DailyRate: *r.DailyRate}
	case r.HourlyRate != nil && r.DailyRate == nil:
		cfg = RateConfig{Model: RateModelHourly, HourlyRate: *r.HourlyRate}
	default:
		return RateConfig{}
	}
	if r.DailyHours != nil {
		cfg.DailyHours = *r.DailyHours
	}
	return cfg
}

func (r RateConfigRequest) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if r.DailyRate == nil && r.HourlyRate == nil {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "either daily_rate or hourly_rate is required"})
	}
	if r.DailyRate != nil && r.HourlyRate != nil {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "daily_rate and hourly_rate are mutually exclusive"})
	}
	if r.HourlyRate != nil && r.DailyHours == nil {
		errs = append(errs, validator.ValidationError{Field: "rate.daily_hours", Message: "is required for hourly_rate"})
	}
	return errs
}

type CalculateSalaryRequest struct {
	EmployeeID string            `json:"employee_id" validate:"required"`
	StartDate  string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	Rate       RateConfigRequest `json:"rate"`
}

func (r *CalculateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	errs = r.Rate.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculateBatchRequest struct {
	EmployeeIDs []string          `json:"employee_ids" validate:"min=1,max=500,dive,required"`
	StartDate   string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	Rate        RateConfigRequest `json:"rate"`
}

func (r *CalculateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	errs = r.Rate.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type EmployeeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	EmployeeCode string `json:"employee_code"`
}

type PeriodResponse struct {
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	TotalCalendarDays int             `json:"total_calendar_days"`
	WorkingDays       decimal.Decimal `json:"working_days"`
}

type RatesResponse struct {
	Model      string           `json:"model"`
	DailyRate  *decimal.Decimal `json:"daily_rate,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyHours decimal.Decimal  `json:"daily_hours"`
}

type ContributionResponse struct {
	Date           string          `json:"date"`
	Status         string          `json:"status"`
	DayValue       decimal.Decimal `json:"day_value"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	UndertimeHours decimal.Decimal `json:"undertime_hours"`
	RecordType     string          `json:"record_type"`
	HoursDefaulted bool            `json:"hours_defaulted,omitempty"`
}

type AttendanceSummaryResponse struct {
	TotalRecords         int                    `json:"total_records"`
	WorkingDays          decimal.Decimal        `json:"working_days"`
	FullDays             int                    `json:"full_days"`
	PartialDays          int                    `json:"partial_days"`
	HalfDays             int                    `json:"half_days"`
	AbsentDays           int                    `json:"absent_days"`
	TotalHours           decimal.Decimal        `json:"total_hours"`
	AverageHours         decimal.Decimal        `json:"average_hours"`
	OvertimeHours        decimal.Decimal        `json:"overtime_hours"`
	UndertimeHours       decimal.Decimal        `json:"undertime_hours"`
	AttendancePercentage decimal.Decimal        `json:"attendance_percentage"`
	Records              []ContributionResponse `json:"records"`
}

type FinancialResponse struct {
	GrossSalary      string `json:"gross_salary"`
	TotalPayments    string `json:"total_payments"`
	NetSalary        string `json:"net_salary"`
	NetSalaryStatus  string `json:"net_salary_status"`
	NetSalaryDisplay string `json:"net_salary_display"`
}

type PaymentResponse struct {
	ID          string  `json:"id"`
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	PaymentMode string  `json:"payment_mode"`
	PaidBy      string  `json:"paid_by"`
	Notes       *string `json:"notes,omitempty"`
}

type SalaryCalculationResponse struct {
	Employee     EmployeeResponse          `json:"employee"`
	Period       PeriodResponse            `json:"period"`
	Rates        RatesResponse             `json:"rates"`
	Attendance   AttendanceSummaryResponse `json:"attendance"`
	Financial    FinancialResponse         `json:"financial"`
	Payments     []PaymentResponse         `json:"payments"`
	CalculatedAt string                    `json:"calculated_at"`
}

type BatchErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type BatchEntryResponse struct {
	EmployeeID string                     `json:"employee_id"`
	Success    bool                       `json:"success"`
	Data       *SalaryCalculationResponse `json:"data,omitempty"`
	Error      *BatchErrorResponse        `json:"error,omitempty"`
}

// ========== MAPPERS ==========

func NewSalaryCalculationResponse(c SalaryCalculation) SalaryCalculationResponse {
	rates := RatesResponse{
		Model:      string(c.Rates.Model),
		DailyHours: c.Rates.DailyHours,
	}
	switch c.Rates.Model {
	case RateModelDaily:
		rate := c.Rates.DailyRate
		rates.DailyRate = &rate
	case RateModelHourly:
		rate := c.Rates.HourlyRate
		rates.HourlyRate = &rate
	}

	records := make([]ContributionResponse, 0, len(c.Attendance.Contributions))
	for _, ct := range c.Attendance.Contributions {
		records = append(records, ContributionResponse{
			Date:           ct.Date.Format(DateLayout),
			Status:         string(ct.Status),
			DayValue:       ct.DayValue,
			HoursWorked:    ct.HoursWorked.Round(2),
			OvertimeHours:  ct.OvertimeHours.Round(2),
			UndertimeHours: ct.UndertimeHours.Round(2),
			RecordType:     string(ct.RecordType),
			HoursDefaulted: ct.HoursDefaulted,
		})
	}

	payments := make([]PaymentResponse, 0, len(c.Payments))
	for _, p := range c.Payments {
		payments = append(payments, PaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount.StringFixed(2),
			PaymentDate: p.PaymentDate.Format(DateLayout),
			PaymentMode: string(p.PaymentMode),
			PaidBy:      p.PaidBy,
			Notes:       p.Notes,
		})
	}

	a := c.Attendance
	return SalaryCalculationResponse{
		Employee: EmployeeResponse{
			ID:           c.Employee.ID,
			Name:         c.Employee.Name,
			Designation:  c.Employee.Designation,
			EmployeeCode: c.Employee.EmployeeCode,
		},
		Period: PeriodResponse{
			StartDate:         c.Period.StartDate.Format(DateLayout),
			EndDate:           c.Period.EndDate.Format(DateLayout),
			TotalCalendarDays: c.Period.TotalCalendarDays,
			WorkingDays:       c.Period.WorkingDays,
		},
		Rates: rates,
		Attendance: AttendanceSummaryResponse{
			TotalRecords:         a.TotalRecords,
			WorkingDays:          a.WorkingDays,
			FullDays:             a.FullDays,
			PartialDays:          a.PartialDays,
			HalfDays:             a.HalfDays,
			AbsentDays:           a.AbsentDays,
			TotalHours:           a.TotalHours,
			AverageHours:         a.AverageHours,
			OvertimeHours:        a.OvertimeHours,
			UndertimeHours:       a.UndertimeHours,
			AttendancePercentage: a.AttendancePercentage,
			Records:              records,
		},
		Financial: FinancialResponse{
			GrossSalary:      c.Financial.GrossSalary.StringFixed(2),
			TotalPayments:    c.Financial.TotalPayments.StringFixed(2),
			NetSalary:        c.Financial.NetSalary.StringFixed(2),
			NetSalaryStatus:  string(c.Financial.NetSalaryStatus),
			NetSalaryDisplay: c.Financial.DisplayAmount().StringFixed(2),
		},
		Payments:     payments,
		CalculatedAt: c.CalculatedAt.Format(time.RFC3339),
	}
}

func NewBatchEntryResponses(entries []BatchEntry) []BatchEntryResponse {
	result := make([]BatchEntryResponse, 0, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			result = append(result, BatchEntryResponse{
				EmployeeID: e.EmployeeID,
				Success:    false,
				Error: &BatchErrorResponse{
					Kind:    string(Kind(e.Err)),
					Message: e.Err.Error(),
				},
			})
			continue
		}
		data := NewSalaryCalculationResponse(*e.Calculation)
		result = append(result, BatchEntryResponse{
			EmployeeID: e.EmployeeID,
			Success:    true,
			Data:       &data,
		})
	}
	return result
}
