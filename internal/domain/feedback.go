package domain

import "time"

// Outcome is the user-declared result of a pursued opportunity.
type Outcome string

const (
	OutcomeWon      Outcome = "won"
	OutcomeLost     Outcome = "lost"
	OutcomeWithdrew Outcome = "withdrew"
)

// Valid reports whether o is a declared outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWon, OutcomeLost, OutcomeWithdrew:
		return true
	}
	return false
}

// TargetStage maps the outcome onto the stage transition it implies.
// Withdrawing archives the item the same way a loss does.
func (o Outcome) TargetStage() Stage {
	if o == OutcomeWon {
		return StageWon
	}
	return StageLost
}

// ValidSuccessFactors is the canonical tag vocabulary for what went well.
var ValidSuccessFactors = map[string]bool{
	"strong_team": true, "early_start": true, "good_fit": true,
	"prior_experience": true, "mentor_support": true, "polished_demo": true,
	"clear_writeup": true,
}

// ValidChallengeFactors is the canonical tag vocabulary for what was hard.
var ValidChallengeFactors = map[string]bool{
	"time_pressure": true, "scope_too_big": true, "tech_issues": true,
	"weak_demo": true, "strong_competition": true, "unclear_requirements": true,
	"team_gaps": true,
}

// FeedbackRecord captures one outcome declaration. A record is assembled
// once at submit time and never mutated afterwards.
type FeedbackRecord struct {
	ItemID           string    `json:"item_id"`
	Outcome          Outcome   `json:"outcome"`
	Placement        string    `json:"placement,omitempty"`
	PrizeWon         string    `json:"prize_won,omitempty"`
	DifficultyRating int       `json:"difficulty_rating"`
	TimeSpentHours   int       `json:"time_spent_hours,omitempty"`
	WouldApplyAgain  bool      `json:"would_apply_again"`
	SuccessFactors   []string  `json:"success_factors,omitempty"`
	ChallengeFactors []string  `json:"challenge_factors,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}
