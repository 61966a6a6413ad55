package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the boundary format for calendar dates.
const DateLayout = "2006-01-02"

// DefaultDailyHours is the expected working time per day when a rate
// configuration does not state one.
var DefaultDailyHours = decimal.NewFromInt(8)

// AttendanceStatus enum
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusHalfDay AttendanceStatus = "half_day"
)

// ParseAttendanceStatus normalizes stored or user-supplied status values.
// Unknown values are returned lowercased and are classified as absent.
func ParseAttendanceStatus(s string) AttendanceStatus {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "present":
		return AttendanceStatusPresent
	case "half_day", "halfday":
		return AttendanceStatusHalfDay
	case "absent":
		return AttendanceStatusAbsent
	}
	return AttendanceStatus(normalized)
}

// AttendanceRecord - one marked day for one employee, as fetched
type AttendanceRecord struct {
	EmployeeID   string
	Date         time.Time
	Status       AttendanceStatus
	CheckInTime  *string // "HH:MM"
	CheckOutTime *string // "HH:MM"
}

// PaymentMode enum
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeOnline PaymentMode = "online"
)

// PaymentRecord - salary already disbursed to an employee
type PaymentRecord struct {
	ID          string
	EmployeeID  string
	Amount      decimal.Decimal
	PaymentDate time.Time
	PaymentMode PaymentMode
	PaidBy      string
	Notes       *string
}

// Employee - the subset of the employee record a calculation needs
type Employee struct {
	ID           string
	Name         string
	Designation  string
	EmployeeCode string
}

// RateModel enum
type RateModel string

const (
	RateModelDaily  RateModel = "daily"
	RateModelHourly RateModel = "hourly"
)

// RateConfig selects exactly one pay model. DailyHours is mandatory for the
// hourly model; under the daily model it only feeds the hours audit.
type RateConfig struct {
	Model      RateModel
	DailyRate  decimal.Decimal
	HourlyRate decimal.Decimal
	DailyHours decimal.Decimal
}

func NewDailyRate(dailyRate decimal.Decimal) RateConfig {
	return RateConfig{Model: RateModelDaily, DailyRate: dailyRate}
}

func NewHourlyRate(hourlyRate, dailyHours decimal.Decimal) RateConfig {
	return RateConfig{Model: RateModelHourly, HourlyRate: hourlyRate, DailyHours: dailyHours}
}

// ExpectedDailyHours returns the hours a full day is worth under this config.
func (r RateConfig) ExpectedDailyHours() decimal.Decimal {
	if r.DailyHours.IsPositive() {
		return r.DailyHours
	}
	return DefaultDailyHours
}

// Normalized fills the defaults so the result echoes what was actually applied.
func (r RateConfig) Normalized() RateConfig {
	r.DailyHours = r.ExpectedDailyHours()
	return r
}

// RecordType enum
type RecordType string

const (
	RecordTypeFull    RecordType = "FULL"
	RecordTypePartial RecordType = "PARTIAL"
	RecordTypeAbsent  RecordType = "ABSENT"
)

// AttendanceContribution - the work value of one attendance record
type AttendanceContribution struct {
	Date           time.Time
	Status         AttendanceStatus
	DayValue       decimal.Decimal
	HoursWorked    decimal.Decimal
	OvertimeHours  decimal.Decimal
	UndertimeHours decimal.Decimal
	RecordType     RecordType

	// HoursDefaulted is set when a present day had missing or unusable
	// check-in/out data and the full-day default was applied instead.
	HoursDefaulted bool
}

// PeriodSummary - aggregate over a period's contributions
type PeriodSummary struct {
	TotalRecords         int
	WorkingDays          decimal.Decimal
	WorkingDaysCount     int // records with DayValue > 0
	FullDays             int
	PartialDays          int
	HalfDays             int
	AbsentDays           int
	TotalHours           decimal.Decimal
	AverageHours         decimal.Decimal
	OvertimeHours        decimal.Decimal
	UndertimeHours       decimal.Decimal
	AttendancePercentage decimal.Decimal
	Contributions        []AttendanceContribution
}

// Rounded returns the display copy of the summary.
func (s PeriodSummary) Rounded() PeriodSummary {
	s.WorkingDays = s.WorkingDays.Round(1)
	s.TotalHours = s.TotalHours.Round(2)
	s.AverageHours = s.AverageHours.Round(2)
	s.OvertimeHours = s.OvertimeHours.Round(2)
	s.UndertimeHours = s.UndertimeHours.Round(2)
	return s
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls on or between Start and End.
func (r DateRange) Contains(d time.Time) bool {
	day := TruncateDate(d)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days returns the inclusive number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// TruncateDate drops the time of day and location, keeping the calendar date.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NetSalaryStatus enum
type NetSalaryStatus string

const (
	NetSalaryStatusDue      NetSalaryStatus = "DUE"
	NetSalaryStatusOverpaid NetSalaryStatus = "OVERPAID"
)

type PeriodInfo struct {
	StartDate         time.Time
	EndDate           time.Time
	TotalCalendarDays int
	WorkingDays       decimal.Decimal
}

type Financial struct {
	GrossSalary     decimal.Decimal
	TotalPayments   decimal.Decimal
	NetSalary       decimal.Decimal
	NetSalaryStatus NetSalaryStatus
}

// DisplayAmount is the magnitude shown next to NetSalaryStatus.
func (f Financial) DisplayAmount() decimal.Decimal {
	return f.NetSalary.Abs()
}

// SalaryCalculation - immutable result of one calculation run
type SalaryCalculation struct {
	Employee     Employee
	Period       PeriodInfo
	Rates        RateConfig
	Attendance   PeriodSummary
	Financial    Financial
	Payments     []PaymentRecord
	CalculatedAt time.Time
}

// BatchEntry is one employee's outcome in a batch run. Exactly one of
// Calculation and Err is set.
type BatchEntry struct {
	EmployeeID  string
	Calculation *SalaryCalculation
	Err         error
}
