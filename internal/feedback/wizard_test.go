package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/testutil"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newSubmittableStore(t *testing.T, item *domain.PipelineItem) (*pipeline.Store, *testutil.FakeCollaborator) {
	t.Helper()
	fake := testutil.NewFakeCollaborator(item)
	store := pipeline.NewStore(fake)
	store.SetNowFunc(func() time.Time { return testNow })
	require.NoError(t, store.Refresh(context.Background()))
	return store, fake
}

func TestWizard_StartsAtOutcome(t *testing.T) {
	w := New("item-1", "Spring Grant")
	assert.Equal(t, StepOutcome, w.Step())
	assert.Equal(t, DefaultDifficulty, w.DifficultyRating)
	assert.False(t, w.Submitted())
}

func TestWizard_OutcomeGatesAdvance(t *testing.T) {
	w := New("item-1", "Spring Grant")

	assert.False(t, w.CanAdvance())
	assert.ErrorIs(t, w.Next(), ErrOutcomeRequired)
	assert.Equal(t, StepOutcome, w.Step())

	w.Outcome = domain.OutcomeLost
	assert.True(t, w.CanAdvance())
	require.NoError(t, w.Next())
	assert.Equal(t, StepReflection, w.Step())
}

func TestWizard_ReflectionHasNoMinimumSelection(t *testing.T) {
	w := New("item-1", "Spring Grant")
	w.Outcome = domain.OutcomeWon
	require.NoError(t, w.Next())

	// Nothing selected on reflection; advancing is still fine.
	require.NoError(t, w.Next())
	assert.Equal(t, StepDetails, w.Step())
}

func TestWizard_BackPreservesEnteredValues(t *testing.T) {
	w := New("item-1", "Spring Grant")
	w.Outcome = domain.OutcomeWon
	w.Placement = "1st place"
	require.NoError(t, w.Next())
	w.SuccessFactors = []string{"strong_team", "early_start"}
	w.WouldApplyAgain = true
	require.NoError(t, w.Next())
	w.Notes = "demo landed well"

	w.Back()
	w.Back()
	assert.Equal(t, StepOutcome, w.Step())
	w.Back()
	assert.Equal(t, StepOutcome, w.Step(), "back is a no-op at the first step")

	assert.Equal(t, "1st place", w.Placement)
	assert.Equal(t, []string{"strong_team", "early_start"}, w.SuccessFactors)
	assert.True(t, w.WouldApplyAgain)
	assert.Equal(t, "demo landed well", w.Notes)
}

func TestWizard_RecordCopiesFactorSlices(t *testing.T) {
	w := New("item-1", "Spring Grant")
	w.Outcome = domain.OutcomeLost
	w.ChallengeFactors = []string{"time_pressure"}

	rec := w.Record(testNow)
	w.ChallengeFactors[0] = "scope_too_big"
	assert.Equal(t, []string{"time_pressure"}, rec.ChallengeFactors)
}

func TestWizard_RecordDropsWinFieldsOnLoss(t *testing.T) {
	w := New("item-1", "Spring Grant")
	w.Outcome = domain.OutcomeLost
	w.Placement = "1st place"
	w.PrizeWon = "$5000"

	rec := w.Record(testNow)
	assert.Empty(t, rec.Placement)
	assert.Empty(t, rec.PrizeWon)
}

func TestWizard_SubmitOnlyFromDetails(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StagePending))
	store, _ := newSubmittableStore(t, item)

	w := New(item.ID, item.Opportunity.Title)
	w.Outcome = domain.OutcomeWon
	_, err := w.Submit(context.Background(), store, testNow)
	assert.ErrorIs(t, err, ErrNotAtDetails)
}

func TestWizard_SubmitWon(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StagePending))
	store, fake := newSubmittableStore(t, item)

	w := New(item.ID, item.Opportunity.Title)
	w.Outcome = domain.OutcomeWon
	w.Placement = "1st place"
	w.PrizeWon = "$5000"
	require.NoError(t, w.Next())
	w.SuccessFactors = []string{"polished_demo"}
	require.NoError(t, w.Next())
	w.DifficultyRating = 4
	w.TimeSpentHours = 30

	rec, err := w.Submit(context.Background(), store, testNow)
	require.NoError(t, err)
	assert.True(t, w.Submitted())

	assert.Equal(t, domain.OutcomeWon, rec.Outcome)
	assert.Equal(t, "1st place", rec.Placement)
	assert.Equal(t, testNow, rec.SubmittedAt)

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageWon, got.Stage)
	assert.Equal(t, 1, fake.MoveCallCount(), "exactly one stage transition")
	require.Len(t, fake.FeedbackCalls, 1)
}

func TestWizard_SubmitWithdrewArchives(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StageSubmitted))
	store, _ := newSubmittableStore(t, item)

	w := New(item.ID, item.Opportunity.Title)
	w.Outcome = domain.OutcomeWithdrew
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())

	_, err := w.Submit(context.Background(), store, testNow)
	require.NoError(t, err)

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageLost, got.Stage)
}

func TestWizard_SubmitFailureKeepsState(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StagePending))
	store, fake := newSubmittableStore(t, item)
	fake.MoveErr = errors.New("backend down")

	w := New(item.ID, item.Opportunity.Title)
	w.Outcome = domain.OutcomeLost
	require.NoError(t, w.Next())
	w.ChallengeFactors = []string{"strong_competition"}
	require.NoError(t, w.Next())
	w.Notes = "close call"

	_, err := w.Submit(context.Background(), store, testNow)
	require.Error(t, err)
	assert.False(t, w.Submitted())
	assert.Equal(t, StepDetails, w.Step())
	assert.Equal(t, "close call", w.Notes, "captured state survives a failed submit")

	// Retry after the backend recovers.
	fake.MoveErr = nil
	_, err = w.Submit(context.Background(), store, testNow)
	require.NoError(t, err)
	assert.True(t, w.Submitted())

	_, err = w.Submit(context.Background(), store, testNow)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}
