// Package feedback implements the guided outcome-capture flow. The wizard
// is a three-step state machine; the TUI renders each step as a form, but
// step ordering, gating and submission semantics live here so they can be
// tested without a terminal.
package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/pipeline"
)

// Step identifies one of the wizard's three ordered sub-states.
type Step int

const (
	StepOutcome Step = iota
	StepReflection
	StepDetails
)

// Label returns the step's display name.
func (s Step) Label() string {
	switch s {
	case StepOutcome:
		return "Outcome"
	case StepReflection:
		return "Reflection"
	case StepDetails:
		return "Details"
	}
	return "?"
}

var (
	// ErrOutcomeRequired gates the only hard validation in the flow:
	// step 1 cannot be left without a declared outcome.
	ErrOutcomeRequired = errors.New("feedback: an outcome must be chosen first")
	// ErrNotAtDetails is returned when submission is attempted before the
	// final step.
	ErrNotAtDetails = errors.New("feedback: submission is only possible from the details step")
	// ErrAlreadySubmitted guards the record's immutability after submit.
	ErrAlreadySubmitted = errors.New("feedback: wizard already submitted")
)

// DefaultDifficulty is the pre-selected difficulty rating.
const DefaultDifficulty = 3

// Wizard accumulates the outcome declaration across the three steps. Field
// values survive backward navigation; only Cancel (dropping the wizard)
// discards them. The TUI binds form inputs directly to these fields.
type Wizard struct {
	ItemID    string
	ItemTitle string

	// Step 1 — outcome. Placement and prize only apply to a win.
	Outcome   domain.Outcome
	Placement string
	PrizeWon  string

	// Step 2 — reflection.
	SuccessFactors   []string
	ChallengeFactors []string
	WouldApplyAgain  bool

	// Step 3 — details.
	DifficultyRating int
	TimeSpentHours   int
	Notes            string

	step      Step
	submitted bool
}

// New starts a wizard for the given item at the outcome step.
func New(itemID, itemTitle string) *Wizard {
	return &Wizard{
		ItemID:           itemID,
		ItemTitle:        itemTitle,
		DifficultyRating: DefaultDifficulty,
	}
}

// Step returns the current sub-state.
func (w *Wizard) Step() Step { return w.step }

// CanAdvance reports whether Next would succeed from the current step.
func (w *Wizard) CanAdvance() bool {
	switch w.step {
	case StepOutcome:
		return w.Outcome.Valid()
	case StepReflection:
		return true
	default:
		return false
	}
}

// Next advances to the following step. The outcome step is the only gate;
// reflection has no minimum selection.
func (w *Wizard) Next() error {
	switch w.step {
	case StepOutcome:
		if !w.Outcome.Valid() {
			return ErrOutcomeRequired
		}
		w.step = StepReflection
	case StepReflection:
		w.step = StepDetails
	case StepDetails:
		return ErrNotAtDetails
	}
	return nil
}

// Back moves one step backward. Always permitted and non-destructive:
// entered values are retained. No-op at the first step.
func (w *Wizard) Back() {
	if w.step > StepOutcome {
		w.step--
	}
}

// Record assembles the immutable feedback record from the captured fields.
// Factor slices are copied so later wizard edits cannot leak into a record
// already handed off.
func (w *Wizard) Record(now time.Time) *domain.FeedbackRecord {
	rec := &domain.FeedbackRecord{
		ItemID:           w.ItemID,
		Outcome:          w.Outcome,
		DifficultyRating: w.DifficultyRating,
		TimeSpentHours:   w.TimeSpentHours,
		WouldApplyAgain:  w.WouldApplyAgain,
		Notes:            w.Notes,
		SuccessFactors:   append([]string(nil), w.SuccessFactors...),
		ChallengeFactors: append([]string(nil), w.ChallengeFactors...),
		SubmittedAt:      now,
	}
	if w.Outcome == domain.OutcomeWon {
		rec.Placement = w.Placement
		rec.PrizeWon = w.PrizeWon
	}
	return rec
}

// Submit finishes the flow: it builds the record and applies its stage
// transition through the store as one logical unit. On failure the wizard
// keeps all captured state, still at the details step, so the user can
// retry without re-entering anything.
func (w *Wizard) Submit(ctx context.Context, store *pipeline.Store, now time.Time) (*domain.FeedbackRecord, error) {
	if w.submitted {
		return nil, ErrAlreadySubmitted
	}
	if w.step != StepDetails {
		return nil, ErrNotAtDetails
	}
	if !w.Outcome.Valid() {
		return nil, ErrOutcomeRequired
	}

	rec := w.Record(now)
	if _, err := store.RecordOutcome(ctx, rec); err != nil {
		return nil, err
	}
	w.submitted = true
	return rec, nil
}

// Submitted reports whether the wizard has completed successfully.
func (w *Wizard) Submitted() bool { return w.submitted }
