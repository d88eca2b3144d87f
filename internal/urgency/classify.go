package urgency

import (
	"fmt"
	"math"
	"time"
)

// Tier is the coarse deadline classification for a pipeline item.
type Tier string

const (
	TierNone     Tier = "none"
	TierSafe     Tier = "safe"
	TierWarning  Tier = "warning"
	TierUrgent   Tier = "urgent"
	TierCritical Tier = "critical"
	TierExpired  Tier = "expired"
)

// Urgency is the derived classification of one deadline. It is recomputed on
// every read because DaysLeft is a function of now; never cache it across
// evaluation cycles.
type Urgency struct {
	Tier     Tier
	DaysLeft *int // nil when there is no deadline
}

// Classify buckets a deadline relative to the supplied now. Boundaries are
// inclusive: 0-3 days critical, 4-7 urgent, 8-14 warning, above that safe.
// A nil deadline classifies as TierNone. Total function, no failure mode.
func Classify(deadline *time.Time, now time.Time) Urgency {
	if deadline == nil {
		return Urgency{Tier: TierNone}
	}

	daysLeft := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	u := Urgency{DaysLeft: &daysLeft}

	switch {
	case daysLeft < 0:
		u.Tier = TierExpired
	case daysLeft <= 3:
		u.Tier = TierCritical
	case daysLeft <= 7:
		u.Tier = TierUrgent
	case daysLeft <= 14:
		u.Tier = TierWarning
	default:
		u.Tier = TierSafe
	}
	return u
}

// Label returns a short human-readable deadline description.
func (u Urgency) Label() string {
	if u.DaysLeft == nil {
		return "no deadline"
	}
	d := *u.DaysLeft
	switch {
	case d < 0:
		return "expired"
	case d == 0:
		return "Today"
	case d == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", d)
	}
}
