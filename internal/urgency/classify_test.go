package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func deadlineIn(days int) *time.Time {
	d := testNow.Add(time.Duration(days) * 24 * time.Hour)
	return &d
}

func TestClassify_NoDeadline(t *testing.T) {
	u := Classify(nil, testNow)
	assert.Equal(t, TierNone, u.Tier)
	assert.Nil(t, u.DaysLeft)
}

func TestClassify_TierBoundaries(t *testing.T) {
	cases := []struct {
		days int
		tier Tier
	}{
		{-1, TierExpired},
		{0, TierCritical},
		{1, TierCritical},
		{3, TierCritical},
		{4, TierUrgent},
		{7, TierUrgent},
		{8, TierWarning},
		{14, TierWarning},
		{15, TierSafe},
		{60, TierSafe},
	}
	for _, tc := range cases {
		u := Classify(deadlineIn(tc.days), testNow)
		require.NotNil(t, u.DaysLeft, "days=%d", tc.days)
		assert.Equal(t, tc.days, *u.DaysLeft, "days=%d", tc.days)
		assert.Equal(t, tc.tier, u.Tier, "days=%d", tc.days)
	}
}

func TestClassify_PartialDayRoundsUp(t *testing.T) {
	// 36 hours out is "2 days left", not 1.
	d := testNow.Add(36 * time.Hour)
	u := Classify(&d, testNow)
	require.NotNil(t, u.DaysLeft)
	assert.Equal(t, 2, *u.DaysLeft)
	assert.Equal(t, TierCritical, u.Tier)
}

func TestClassify_JustExpired(t *testing.T) {
	// An hour past the deadline still ceils to 0, which reads as due today.
	d := testNow.Add(-time.Hour)
	u := Classify(&d, testNow)
	require.NotNil(t, u.DaysLeft)
	assert.Equal(t, 0, *u.DaysLeft)
	assert.Equal(t, TierCritical, u.Tier)

	d = testNow.Add(-25 * time.Hour)
	u = Classify(&d, testNow)
	assert.Equal(t, TierExpired, u.Tier)
}

func TestUrgencyLabel(t *testing.T) {
	assert.Equal(t, "no deadline", Classify(nil, testNow).Label())
	assert.Equal(t, "Today", Classify(deadlineIn(0), testNow).Label())
	assert.Equal(t, "1 day left", Classify(deadlineIn(1), testNow).Label())
	assert.Equal(t, "5 days left", Classify(deadlineIn(5), testNow).Label())
	assert.Equal(t, "expired", Classify(deadlineIn(-2), testNow).Label())
}
