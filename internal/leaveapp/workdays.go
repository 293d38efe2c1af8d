package leaveapp

import "time"

// CountWorkingDays counts the days in the inclusive interval
// [start, end] that are not Sundays. Saturdays count as working days.
// An inverted range yields 0 rather than an error.
//
// Inputs are normalized to calendar dates in UTC so a time-of-day or
// zone component can never shift the count across midnight.
func CountWorkingDays(start, end time.Time) int {
	start = toDate(start)
	end = toDate(end)

	if end.Before(start) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}

// RecallCalculation is the used/refund split for ending a leave early.
// OriginalTotal is the stored planned duration, passed through rather
// than recomputed; it need not equal DaysUsed + DaysToRefund.
type RecallCalculation struct {
	DaysUsed      int `json:"days_used"`
	DaysToRefund  int `json:"days_to_refund"`
	OriginalTotal int `json:"original_total"`
}

// DeriveRecallSplit splits a leave period around a resumption date.
// Days before the resumption date count as used; the resumption date
// itself and everything after it count as refundable. When resumption
// equals the start date the used segment is empty and the counter's
// inverted-range rule yields 0.
//
// Pure and idempotent; callers may re-run it on every candidate date
// change.
func DeriveRecallSplit(start, end, resumption time.Time, originalTotal int) RecallCalculation {
	lastLeaveDate := toDate(resumption).AddDate(0, 0, -1)

	return RecallCalculation{
		DaysUsed:      CountWorkingDays(start, lastLeaveDate),
		DaysToRefund:  CountWorkingDays(resumption, end),
		OriginalTotal: originalTotal,
	}
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
