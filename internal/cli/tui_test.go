package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/teatest"
	"github.com/pursuitapp/pursuit/internal/testutil"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, items ...*domain.PipelineItem) (*teatest.Driver, *pipeline.Store, *testutil.FakeCollaborator) {
	t.Helper()
	fake := testutil.NewFakeCollaborator(items...)
	store := pipeline.NewStore(fake)
	store.SetNowFunc(func() time.Time { return testNow })

	state := &SharedState{
		Store:      store,
		Thresholds: urgency.DefaultThresholds(),
		Now:        func() time.Time { return testNow },
	}

	d := teatest.New(t, newAppModel(state), teatest.WithSize(120, 40))
	d.DrainInit()
	return d, store, fake
}

func TestBoard_ShowsItemsInStageColumns(t *testing.T) {
	d, _, _ := newTestApp(t,
		testutil.NewItem("Spring Grant"),
		testutil.NewItem("AI Hackathon", testutil.WithStage(domain.StagePreparing)),
	)

	view := d.View()
	assert.Contains(t, view, "DISCOVERED")
	assert.Contains(t, view, "PREPARING")
	assert.Contains(t, view, "Spring Grant")
	assert.Contains(t, view, "AI Hackathon")
}

func TestBoard_UrgencyBadgeOnCards(t *testing.T) {
	deadline := testNow.Add(48 * time.Hour)
	d, _, _ := newTestApp(t, testutil.NewItem("Spring Grant", testutil.WithDeadline(deadline)))
	assert.Contains(t, d.View(), "● 2d")
}

func TestBoard_AdvanceKeyMovesCard(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, fake := newTestApp(t, item)

	d.PressKey('n')

	got, ok := store.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StagePreparing, got.Stage)
	assert.Equal(t, 1, fake.MoveCallCount())
	assert.Contains(t, d.View(), "Moved \"Spring Grant\" to Preparing")
}

func TestBoard_GrabHoverDrop(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, fake := newTestApp(t, item)

	d.PressKey('g')
	assert.Contains(t, d.View(), "✥", "grabbed card is marked")

	d.PressRight()
	d.PressEnter()

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StagePreparing, got.Stage)
	assert.Equal(t, 1, fake.MoveCallCount())
}

func TestBoard_DropOnOwnColumnIssuesNothing(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, fake := newTestApp(t, item)

	d.PressKey('g')
	d.PressEnter()

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageDiscovered, got.Stage)
	assert.Equal(t, 0, fake.MoveCallCount())
}

func TestBoard_EscCancelsGrab(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, fake := newTestApp(t, item)

	d.PressKey('g')
	d.PressRight()
	d.PressEsc()
	d.PressEnter() // now opens the action menu instead of dropping

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageDiscovered, got.Stage)
	assert.Equal(t, 0, fake.MoveCallCount())
	assert.Contains(t, d.View(), "ACTIONS")
}

func TestBoard_RejectedMoveShowsErrorAndRestoresCard(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, fake := newTestApp(t, item)
	fake.MoveErr = assert.AnError

	d.PressKey('n')

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageDiscovered, got.Stage)
	assert.Contains(t, d.View(), "Move failed")
}

func TestActionMenu_AdvanceEntry(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StageSubmitted))
	d, store, _ := newTestApp(t, item)

	// Move the cursor to the Submitted column, open the menu, pick the
	// first entry (advance).
	d.PressRight()
	d.PressRight()
	d.PressEnter()
	assert.Contains(t, d.View(), "Advance to Pending")

	d.PressEnter()
	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StagePending, got.Stage)
}

func TestActionMenu_TerminalItemHasNoAdvance(t *testing.T) {
	d, _, _ := newTestApp(t, testutil.NewItem("Spring Grant", testutil.WithStage(domain.StageWon)))

	for i := 0; i < domain.StageWon.Ordinal(); i++ {
		d.PressRight()
	}
	d.PressEnter()

	view := d.View()
	assert.NotContains(t, view, "Advance to")
	assert.NotContains(t, view, "Record Outcome")
	assert.Contains(t, view, "Delete")
}

func TestActionMenu_RestoreOnLostItem(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StageLost))
	d, store, fake := newTestApp(t, item)

	for i := 0; i < domain.StageLost.Ordinal(); i++ {
		d.PressRight()
	}
	d.PressEnter()
	assert.Contains(t, d.View(), "Restore to Discovered")

	d.PressKey('u')
	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageDiscovered, got.Stage)
	require.Len(t, fake.RestoreCalls, 1)
	assert.Equal(t, domain.StageDiscovered, fake.RestoreCalls[0].Target)
}

func TestStagePicker_MoveAnywhere(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, _ := newTestApp(t, item)

	d.PressEnter()
	d.PressKey('m')
	assert.Contains(t, d.View(), "MOVE TO STAGE")

	// Cursor starts on the current stage; move down to Preparing.
	d.PressDown()
	d.PressEnter()

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StagePreparing, got.Stage)
	assert.Contains(t, d.View(), "DISCOVERED", "picker popped back to the board")
}

func TestAgendaView_ConflictsAndPressure(t *testing.T) {
	day3 := testNow.Add(3 * 24 * time.Hour)
	d, _, _ := newTestApp(t,
		testutil.NewItem("Spring Grant", testutil.WithDeadline(day3)),
		testutil.NewItem("AI Hackathon", testutil.WithDeadline(day3)),
		testutil.NewItem("Essay Contest", testutil.WithDeadline(testNow.Add(6*24*time.Hour))),
		testutil.NewItem("Robotics Cup", testutil.WithDeadline(testNow.Add(9*24*time.Hour))),
	)

	d.PressKey('d')
	view := d.View()
	assert.Contains(t, view, "NEXT 14 DAYS")
	assert.Contains(t, view, "4 upcoming")
	assert.Contains(t, view, "1 conflict days")
	assert.Contains(t, view, "heavy load")
	assert.Contains(t, view, "Spring Grant")
}

func TestAgendaView_EmptyWindow(t *testing.T) {
	d, _, _ := newTestApp(t, testutil.NewItem("Spring Grant"))
	d.PressKey('d')
	assert.Contains(t, d.View(), "No deadlines in the window")
}

func TestFeedbackView_OpensAndCancels(t *testing.T) {
	item := testutil.NewItem("Spring Grant", testutil.WithStage(domain.StagePending))
	d, store, fake := newTestApp(t, item)

	for i := 0; i < domain.StagePending.Ordinal(); i++ {
		d.PressRight()
	}
	d.PressKey('o')
	view := d.View()
	assert.Contains(t, view, "RECORD OUTCOME")
	assert.Contains(t, view, "How did it end?")

	d.PressEsc()
	assert.Contains(t, d.View(), "DISCOVERED", "back on the board")

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StagePending, got.Stage, "cancel discards everything")
	assert.Empty(t, fake.FeedbackCalls)
	assert.Equal(t, 0, fake.MoveCallCount())
}

func TestRefresh_FailureShowsStaleBoard(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, _, fake := newTestApp(t, item)

	fake.ListErr = assert.AnError
	d.PressKey('r')

	view := d.View()
	assert.Contains(t, view, "Refresh failed")
	assert.Contains(t, view, "Spring Grant", "last-known-good board still rendered")
}

func TestQuitKey(t *testing.T) {
	d, _, _ := newTestApp(t, testutil.NewItem("Spring Grant"))
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestStoreDirectUseMatchesBoardState(t *testing.T) {
	item := testutil.NewItem("Spring Grant")
	d, store, _ := newTestApp(t, item)

	_, err := store.RequestTransition(context.Background(), item.ID, domain.StageSubmitted)
	require.NoError(t, err)

	d.PressKey('r')
	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageSubmitted, got.Stage)
}
