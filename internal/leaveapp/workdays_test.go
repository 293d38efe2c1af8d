package leaveapp_test

import (
	"testing"
	"time"

	"go-leave/internal/leaveapp"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDays(t *testing.T) {
	t.Run("inverted range returns zero", func(t *testing.T) {
		got := leaveapp.CountWorkingDays(date(2024, time.January, 10), date(2024, time.January, 9))
		assert.Equal(t, 0, got)
	})

	t.Run("single non-Sunday counts as one", func(t *testing.T) {
		// 2024-01-01 is a Monday
		monday := date(2024, time.January, 1)
		assert.Equal(t, 1, leaveapp.CountWorkingDays(monday, monday))
	})

	t.Run("single Sunday counts as zero", func(t *testing.T) {
		// 2024-01-07 is a Sunday
		sunday := date(2024, time.January, 7)
		assert.Equal(t, 0, leaveapp.CountWorkingDays(sunday, sunday))
	})

	t.Run("saturday counts as working day", func(t *testing.T) {
		// 2024-01-06 is a Saturday
		saturday := date(2024, time.January, 6)
		assert.Equal(t, 1, leaveapp.CountWorkingDays(saturday, saturday))
	})

	t.Run("fourteen day span from Monday excludes exactly two Sundays", func(t *testing.T) {
		got := leaveapp.CountWorkingDays(date(2024, time.January, 1), date(2024, time.January, 14))
		assert.Equal(t, 12, got)
	})

	t.Run("time of day and zone never shift the count", func(t *testing.T) {
		loc := time.FixedZone("UTC+13", 13*3600)
		start := time.Date(2024, time.January, 1, 23, 30, 0, 0, loc)
		end := time.Date(2024, time.January, 14, 0, 15, 0, 0, loc)
		assert.Equal(t, 12, leaveapp.CountWorkingDays(start, end))
	})
}

func TestDeriveRecallSplit(t *testing.T) {
	start := date(2024, time.January, 1) // Monday
	end := date(2024, time.January, 14)  // Sunday

	t.Run("mid-period resumption splits used and refund", func(t *testing.T) {
		// Resume Monday Jan 8: used Jan 1-7 (Jan 7 Sunday excluded),
		// refund Jan 8-14 (Jan 14 Sunday excluded).
		calc := leaveapp.DeriveRecallSplit(start, end, date(2024, time.January, 8), 12)

		assert.Equal(t, 6, calc.DaysUsed)
		assert.Equal(t, 6, calc.DaysToRefund)
		assert.Equal(t, 12, calc.OriginalTotal)
	})

	t.Run("resumption on start date means nothing used", func(t *testing.T) {
		calc := leaveapp.DeriveRecallSplit(start, end, start, 12)

		assert.Equal(t, 0, calc.DaysUsed)
		assert.Equal(t, leaveapp.CountWorkingDays(start, end), calc.DaysToRefund)
	})

	t.Run("resumption on end date refunds just that day", func(t *testing.T) {
		// Jan 14 is a Sunday, so the refundable segment is empty.
		calc := leaveapp.DeriveRecallSplit(start, end, end, 12)
		assert.Equal(t, 0, calc.DaysToRefund)

		// A non-Sunday end date refunds exactly one day.
		end2 := date(2024, time.January, 13) // Saturday
		calc2 := leaveapp.DeriveRecallSplit(start, end2, end2, 12)
		assert.Equal(t, 1, calc2.DaysToRefund)
	})

	t.Run("idempotent for identical inputs", func(t *testing.T) {
		resumption := date(2024, time.January, 10)
		first := leaveapp.DeriveRecallSplit(start, end, resumption, 12)
		second := leaveapp.DeriveRecallSplit(start, end, resumption, 12)
		assert.Equal(t, first, second)
	})

	t.Run("original total is passed through not recomputed", func(t *testing.T) {
		calc := leaveapp.DeriveRecallSplit(start, end, date(2024, time.January, 8), 99)
		assert.Equal(t, 99, calc.OriginalTotal)
		assert.NotEqual(t, calc.DaysUsed+calc.DaysToRefund, calc.OriginalTotal)
	})
}
