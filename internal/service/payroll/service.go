package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchConcurrency = 4
	DefaultEmployeeTimeout  = 30 * time.Second
)

var maxDailyHours = decimal.NewFromInt(24)

type SalaryServiceImpl struct {
	payroll.AttendanceRepository
	payroll.PaymentRepository
	payroll.EmployeeRepository

	classifier        *AttendanceClassifier
	aggregator        *PeriodAggregator
	paymentAggregator *PaymentAggregator

	now               func() time.Time
	batchConcurrency  int
	employeeTimeout   time.Duration
	defaultDailyHours decimal.Decimal
}

type Option func(*SalaryServiceImpl)

// WithDefaultDailyHours sets the full-day length used by daily-rate configs
// that leave DailyHours unset.
func WithDefaultDailyHours(h decimal.Decimal) Option {
	return func(s *SalaryServiceImpl) {
		if validDailyHours(h) {
			s.defaultDailyHours = h
		}
	}
}

// WithClock replaces the clock used to stamp CalculatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *SalaryServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBatchConcurrency bounds how many employees CalculateMany runs at once.
func WithBatchConcurrency(n int) Option {
	return func(s *SalaryServiceImpl) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithEmployeeTimeout bounds a single employee's calculation inside CalculateMany.
func WithEmployeeTimeout(d time.Duration) Option {
	return func(s *SalaryServiceImpl) {
		if d > 0 {
			s.employeeTimeout = d
		}
	}
}

// Calculate implements payroll.SalaryService.
func (s *SalaryServiceImpl) Calculate(ctx context.Context, employeeID string, startDate string, endDate string, rate payroll.RateConfig) (payroll.SalaryCalculation, error) {
	if validator.IsEmpty(employeeID) {
		return payroll.SalaryCalculation{}, fmt.Errorf("%w: employee id is required", payroll.ErrInvalidPeriod)
	}

	period, err := parseRange(startDate, endDate)
	if err != nil {
		return payroll.SalaryCalculation{}, err
	}

	rate, err = s.validateRate(rate)
	if err != nil {
		return payroll.SalaryCalculation{}, err
	}

	return s.calculate(ctx, strings.TrimSpace(employeeID), period, rate)
}

// CalculateMany implements payroll.SalaryService. Only a bad period or rate
// fails the whole call; anything else lands on that employee's entry.
func (s *SalaryServiceImpl) CalculateMany(ctx context.Context, employeeIDs []string, startDate string, endDate string, rate payroll.RateConfig) ([]payroll.BatchEntry, error) {
	period, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rate, err = s.validateRate(rate)
	if err != nil {
		return nil, err
	}

	entries := make([]payroll.BatchEntry, len(employeeIDs))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			entries[i] = s.calculateEntry(ctx, employeeID, period, rate)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, entry := range entries {
		if entry.Err == nil {
			continue
		}
		failed++
		slog.Warn("salary calculation failed",
			"employee_id", entry.EmployeeID,
			"kind", payroll.Kind(entry.Err),
			"error", entry.Err,
		)
	}

	slog.Info("batch salary calculation finished",
		"employees", len(entries),
		"succeeded", len(entries)-failed,
		"failed", failed,
		"start_date", startDate,
		"end_date", endDate,
	)

	return entries, nil
}

func (s *SalaryServiceImpl) calculateEntry(ctx context.Context, employeeID string, period payroll.DateRange, rate payroll.RateConfig) payroll.BatchEntry {
	entry := payroll.BatchEntry{EmployeeID: employeeID}
	if validator.IsEmpty(employeeID) {
		entry.Err = fmt.Errorf("%w: employee id is required", payroll.ErrInvalidPeriod)
		return entry
	}

	ctx, cancel := context.WithTimeout(ctx, s.employeeTimeout)
	defer cancel()

	type result struct {
		calculation payroll.SalaryCalculation
		err         error
	}
	done := make(chan result, 1)
	go func() {
		calculation, err := s.calculate(ctx, strings.TrimSpace(employeeID), period, rate)
		done <- result{calculation: calculation, err: err}
	}()

	// A collaborator that ignores ctx must not hold the batch; its goroutine
	// is abandoned and drains into the buffered channel.
	select {
	case r := <-done:
		if r.err != nil {
			entry.Err = r.err
			return entry
		}
		entry.Calculation = &r.calculation
	case <-ctx.Done():
		entry.Err = fmt.Errorf("calculate salary for employee %s: %w", employeeID, ctx.Err())
	}
	return entry
}

func (s *SalaryServiceImpl) calculate(ctx context.Context, employeeID string, period payroll.DateRange, rate payroll.RateConfig) (payroll.SalaryCalculation, error) {
	employee, err := s.EmployeeRepository.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrEmployeeNotFound) {
			return payroll.SalaryCalculation{}, fmt.Errorf("employee %s: %w", employeeID, payroll.ErrEmployeeNotFound)
		}
		return payroll.SalaryCalculation{}, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}

	var (
		attendance []payroll.AttendanceRecord
		payments   []payroll.PaymentRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.AttendanceRepository.ListAttendance(gctx, employeeID, period)
		if err != nil {
			return fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
		}
		attendance = records
		return nil
	})
	g.Go(func() error {
		records, err := s.PaymentRepository.ListPayments(gctx, employeeID, period)
		if err != nil {
			return fmt.Errorf("failed to list payments for employee %s: %w", employeeID, err)
		}
		payments = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.SalaryCalculation{}, err
	}

	dailyHours := rate.ExpectedDailyHours()
	contributions := make([]payroll.AttendanceContribution, 0, len(attendance))
	for _, record := range attendance {
		if record.EmployeeID != employeeID || !period.Contains(record.Date) {
			slog.Warn("dropping out-of-scope attendance record",
				"employee_id", employeeID,
				"record_employee_id", record.EmployeeID,
				"date", record.Date.Format(payroll.DateLayout),
			)
			continue
		}

		contribution, err := s.classifier.Classify(record, dailyHours)
		if err != nil {
			slog.Warn("applied default hours to attendance record",
				"employee_id", employeeID,
				"error", err,
			)
		}
		contributions = append(contributions, contribution)
	}

	summary := s.aggregator.Aggregate(contributions)

	keptPayments := s.paymentAggregator.Filter(employeeID, period, payments)
	totalPaid := s.paymentAggregator.TotalPaid(employeeID, period, keptPayments)

	var gross decimal.Decimal
	switch rate.Model {
	case payroll.RateModelDaily:
		gross = summary.WorkingDays.Mul(rate.DailyRate)
	case payroll.RateModelHourly:
		gross = summary.TotalHours.Mul(rate.HourlyRate)
	}

	net := gross.Sub(totalPaid)
	status := payroll.NetSalaryStatusDue
	if net.IsNegative() {
		status = payroll.NetSalaryStatusOverpaid
	}

	return payroll.SalaryCalculation{
		Employee: employee,
		Period: payroll.PeriodInfo{
			StartDate:         period.Start,
			EndDate:           period.End,
			TotalCalendarDays: period.Days(),
			WorkingDays:       summary.WorkingDays.Round(1),
		},
		Rates:      rate,
		Attendance: summary.Rounded(),
		Financial: payroll.Financial{
			GrossSalary:     gross.Round(2),
			TotalPayments:   totalPaid.Round(2),
			NetSalary:       net.Round(2),
			NetSalaryStatus: status,
		},
		Payments:     keptPayments,
		CalculatedAt: s.now(),
	}, nil
}

func parseRange(startDate, endDate string) (payroll.DateRange, error) {
	if validator.IsEmpty(startDate) || validator.IsEmpty(endDate) {
		return payroll.DateRange{}, fmt.Errorf("%w: start_date and end_date are required", payroll.ErrInvalidPeriod)
	}

	start, err := time.Parse(payroll.DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return payroll.DateRange{}, fmt.Errorf("%w: start_date %q must be YYYY-MM-DD", payroll.ErrInvalidPeriod, startDate)
	}
	end, err := time.Parse(payroll.DateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return payroll.DateRange{}, fmt.Errorf("%w: end_date %q must be YYYY-MM-DD", payroll.ErrInvalidPeriod, endDate)
	}

	if start.After(end) {
		return payroll.DateRange{}, fmt.Errorf("%w: start_date %s is after end_date %s", payroll.ErrInvalidPeriod, startDate, endDate)
	}

	return payroll.DateRange{Start: start, End: end}, nil
}

func (s *SalaryServiceImpl) validateRate(rate payroll.RateConfig) (payroll.RateConfig, error) {
	switch rate.Model {
	case payroll.RateModelDaily:
		if !rate.DailyRate.IsPositive() {
			return payroll.RateConfig{}, fmt.Errorf("%w: daily rate must be positive", payroll.ErrInvalidRate)
		}
		if !rate.HourlyRate.IsZero() {
			return payroll.RateConfig{}, fmt.Errorf("%w: daily and hourly rates are mutually exclusive", payroll.ErrInvalidRate)
		}
		if !rate.DailyHours.IsZero() && !validDailyHours(rate.DailyHours) {
			return payroll.RateConfig{}, fmt.Errorf("%w: daily hours must be within (0, 24]", payroll.ErrInvalidRate)
		}

	case payroll.RateModelHourly:
		if !rate.HourlyRate.IsPositive() {
			return payroll.RateConfig{}, fmt.Errorf("%w: hourly rate must be positive", payroll.ErrInvalidRate)
		}
		if !rate.DailyRate.IsZero() {
			return payroll.RateConfig{}, fmt.Errorf("%w: daily and hourly rates are mutually exclusive", payroll.ErrInvalidRate)
		}
		if !validDailyHours(rate.DailyHours) {
			return payroll.RateConfig{}, fmt.Errorf("%w: daily hours must be within (0, 24]", payroll.ErrInvalidRate)
		}

	default:
		return payroll.RateConfig{}, fmt.Errorf("%w: unknown rate model %q", payroll.ErrInvalidRate, rate.Model)
	}

	if rate.DailyHours.IsZero() {
		rate.DailyHours = s.defaultDailyHours
	}
	return rate.Normalized(), nil
}

func validDailyHours(h decimal.Decimal) bool {
	return h.IsPositive() && h.LessThanOrEqual(maxDailyHours)
}

func NewSalaryService(
	attendanceRepo payroll.AttendanceRepository,
	paymentRepo payroll.PaymentRepository,
	employeeRepo payroll.EmployeeRepository,
	opts ...Option,
) payroll.SalaryService {
	s := &SalaryServiceImpl{
		AttendanceRepository: attendanceRepo,
		PaymentRepository:    paymentRepo,
		EmployeeRepository:   employeeRepo,
		classifier:           NewAttendanceClassifier(),
		aggregator:           NewPeriodAggregator(),
		paymentAggregator:    NewPaymentAggregator(),
		now:                  func() time.Time { return time.Now().UTC() },
		batchConcurrency:     DefaultBatchConcurrency,
		employeeTimeout:      DefaultEmployeeTimeout,
		defaultDailyHours:    payroll.DefaultDailyHours,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
