package payroll

import (
	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// PeriodAggregator folds a period's contributions into a PeriodSummary. The
// summary keeps full precision; only AttendancePercentage is rounded here.
type PeriodAggregator struct {
}

func NewPeriodAggregator() *PeriodAggregator {
	return &PeriodAggregator{}
}

func (a *PeriodAggregator) Aggregate(contributions []payroll.AttendanceContribution) payroll.PeriodSummary {
	summary := payroll.PeriodSummary{
		TotalRecords:         len(contributions),
		WorkingDays:          decimal.Zero,
		TotalHours:           decimal.Zero,
		AverageHours:         decimal.Zero,
		OvertimeHours:        decimal.Zero,
		UndertimeHours:       decimal.Zero,
		AttendancePercentage: decimal.Zero,
		Contributions:        make([]payroll.AttendanceContribution, len(contributions)),
	}
	copy(summary.Contributions, contributions)

	for _, c := range contributions {
		summary.WorkingDays = summary.WorkingDays.Add(c.DayValue)
		summary.TotalHours = summary.TotalHours.Add(c.HoursWorked)
		summary.OvertimeHours = summary.OvertimeHours.Add(c.OvertimeHours)
		summary.UndertimeHours = summary.UndertimeHours.Add(c.UndertimeHours)

		switch c.RecordType {
		case payroll.RecordTypeFull:
			summary.FullDays++
		case payroll.RecordTypePartial:
			summary.PartialDays++
		case payroll.RecordTypeAbsent:
			summary.AbsentDays++
		}
		if c.Status == payroll.AttendanceStatusHalfDay {
			summary.HalfDays++
		}
		if c.DayValue.IsPositive() {
			summary.WorkingDaysCount++
		}
	}

	if summary.WorkingDaysCount > 0 {
		summary.AverageHours = summary.TotalHours.Div(decimal.NewFromInt(int64(summary.WorkingDaysCount)))
	}

	if summary.TotalRecords > 0 {
		pct := summary.WorkingDays.Div(decimal.NewFromInt(int64(summary.TotalRecords))).Mul(hundred).Round(1)
		summary.AttendancePercentage = decimal.Min(hundred, decimal.Max(decimal.Zero, pct))
	}

	return summary
}
