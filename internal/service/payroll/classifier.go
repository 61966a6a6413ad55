package payroll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

var (
	one     = decimal.NewFromInt(1)
	half    = decimal.NewFromFloat(0.5)
	two     = decimal.NewFromInt(2)
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// AttendanceClassifier turns one attendance record into its work value.
type AttendanceClassifier struct {
}

func NewAttendanceClassifier() *AttendanceClassifier {
	return &AttendanceClassifier{}
}

// Classify never fails the record. When check-in/out times are malformed the
// full-day default is applied and an error wrapping ErrInvalidTimeFormat is
// returned alongside the usable contribution.
func (c *AttendanceClassifier) Classify(record payroll.AttendanceRecord, dailyHours decimal.Decimal) (payroll.AttendanceContribution, error) {
	status := payroll.ParseAttendanceStatus(string(record.Status))
	contribution := payroll.AttendanceContribution{
		Date:        record.Date,
		Status:      status,
		DayValue:    decimal.Zero,
		HoursWorked: decimal.Zero,
		RecordType:  payroll.RecordTypeAbsent,
	}

	var timeErr error
	switch status {
	case payroll.AttendanceStatusPresent:
		contribution.DayValue = one
		contribution.HoursWorked = dailyHours
		contribution.HoursDefaulted = true

		if hasTime(record.CheckInTime) && hasTime(record.CheckOutTime) {
			hours, err := HoursBetween(*record.CheckInTime, *record.CheckOutTime)
			if err != nil {
				timeErr = fmt.Errorf("attendance on %s: %w", record.Date.Format(payroll.DateLayout), err)
			} else {
				contribution.HoursWorked = hours
				contribution.HoursDefaulted = false
			}
		}

		if contribution.HoursWorked.GreaterThanOrEqual(dailyHours) {
			contribution.RecordType = payroll.RecordTypeFull
		} else {
			contribution.RecordType = payroll.RecordTypePartial
		}

	case payroll.AttendanceStatusHalfDay:
		contribution.DayValue = half
		contribution.HoursWorked = dailyHours.Div(two)
		contribution.RecordType = payroll.RecordTypePartial
	}

	contribution.OvertimeHours = decimal.Max(decimal.Zero, contribution.HoursWorked.Sub(dailyHours))
	contribution.UndertimeHours = decimal.Zero
	// Absent days are zero working time, not a shortfall.
	if contribution.HoursWorked.IsPositive() {
		contribution.UndertimeHours = decimal.Max(decimal.Zero, dailyHours.Sub(contribution.HoursWorked))
	}

	return contribution, timeErr
}

// HoursBetween returns the hours from checkIn to checkOut ("HH:MM"). A
// check-out earlier than the check-in is taken as the next day.
func HoursBetween(checkIn, checkOut string) (decimal.Decimal, error) {
	in, err := parseClockMinutes(checkIn)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := parseClockMinutes(checkOut)
	if err != nil {
		return decimal.Zero, err
	}

	if out < in {
		out += minutesPerDay
	}
	minutes := out - in
	if minutes < 0 {
		minutes = 0
	}

	return decimal.NewFromInt(int64(minutes)).Div(sixty), nil
}

func parseClockMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !validator.IsValidClockTime(s) {
		return 0, fmt.Errorf("%q: %w", s, payroll.ErrInvalidTimeFormat)
	}

	hours, _ := strconv.Atoi(s[:2])
	minutes, _ := strconv.Atoi(s[3:])
	return hours*60 + minutes, nil
}

func hasTime(s *string) bool {
	return s != nil && !validator.IsEmpty(*s)
}
