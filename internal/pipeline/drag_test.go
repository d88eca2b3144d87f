package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/testutil"
)

func TestDrag_GrabHoverRelease(t *testing.T) {
	item := testutil.NewItem("opp")
	store, fake := newTestStore(t, item)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	assert.True(t, drag.Dragging())

	drag.HoverColumn(domain.StagePreparing)
	hover, ok := drag.Hover()
	require.True(t, ok)
	assert.Equal(t, domain.StagePreparing, hover)

	updated, issued, err := drag.Release(context.Background())
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, domain.StagePreparing, updated.Stage)
	assert.Equal(t, 1, fake.MoveCallCount())
	assert.False(t, drag.Dragging())
}

func TestDrag_GrabUnknownItem(t *testing.T) {
	store, _ := newTestStore(t)
	drag := NewDragController(store)
	assert.ErrorIs(t, drag.Grab("nope"), ErrItemNotFound)
	assert.False(t, drag.Dragging())
}

func TestDrag_ReleaseWithoutHoverIsNoOp(t *testing.T) {
	item := testutil.NewItem("opp")
	store, fake := newTestStore(t, item)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	updated, issued, err := drag.Release(context.Background())
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Nil(t, updated)
	assert.Equal(t, 0, fake.MoveCallCount())
}

func TestDrag_ReleaseOverOwnColumnIsNoOp(t *testing.T) {
	item := testutil.NewItem("opp", testutil.WithStage(domain.StageSubmitted))
	store, fake := newTestStore(t, item)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	drag.HoverColumn(domain.StageSubmitted)
	_, issued, err := drag.Release(context.Background())
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, 0, fake.MoveCallCount(), "dropping in place must not reach the collaborator")
}

func TestDrag_HoverIsReentrant(t *testing.T) {
	item := testutil.NewItem("opp")
	store, _ := newTestStore(t, item)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	drag.HoverColumn(domain.StagePreparing)
	drag.HoverColumn(domain.StageSubmitted)
	drag.ClearHover()
	drag.HoverColumn(domain.StagePending)

	hover, ok := drag.Hover()
	require.True(t, ok)
	assert.Equal(t, domain.StagePending, hover)
}

func TestDrag_Cancel(t *testing.T) {
	item := testutil.NewItem("opp")
	store, fake := newTestStore(t, item)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	drag.HoverColumn(domain.StageWon)
	drag.Cancel()

	assert.False(t, drag.Dragging())
	_, issued, err := drag.Release(context.Background())
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, 0, fake.MoveCallCount())
}

func TestDrag_GrabSupersedesActiveGesture(t *testing.T) {
	a := testutil.NewItem("a")
	b := testutil.NewItem("b")
	store, _ := newTestStore(t, a, b)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(a.ID))
	drag.HoverColumn(domain.StagePreparing)
	require.NoError(t, drag.Grab(b.ID))

	assert.Equal(t, b.ID, drag.ItemID())
	_, ok := drag.Hover()
	assert.False(t, ok, "hover from the superseded gesture is gone")
}

func TestDrag_RejectionSurfacesAndResets(t *testing.T) {
	item := testutil.NewItem("opp")
	store, fake := newTestStore(t, item)
	fake.MoveErr = errors.New("backend down")
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(item.ID))
	drag.HoverColumn(domain.StagePreparing)
	_, issued, err := drag.Release(context.Background())

	assert.True(t, issued)
	var rejected *TransitionRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.False(t, drag.Dragging())

	got, _ := store.Get(item.ID)
	assert.Equal(t, domain.StageDiscovered, got.Stage, "card back where it started")
}

// A drop and a menu-driven move are the same operation at the store level.
func TestDrag_DropEquivalentToDirectTransition(t *testing.T) {
	a := testutil.NewItem("a")
	b := testutil.NewItem("b")
	store, fake := newTestStore(t, a, b)
	drag := NewDragController(store)

	require.NoError(t, drag.Grab(a.ID))
	drag.HoverColumn(domain.StagePreparing)
	viaDrop, _, err := drag.Release(context.Background())
	require.NoError(t, err)

	viaMenu, err := store.RequestTransition(context.Background(), b.ID, domain.StagePreparing)
	require.NoError(t, err)

	assert.Equal(t, viaDrop.Stage, viaMenu.Stage)
	require.Len(t, fake.MoveCalls, 2)
	assert.Equal(t, fake.MoveCalls[0].Target, fake.MoveCalls[1].Target)
	assert.WithinDuration(t, viaDrop.UpdatedAt, viaMenu.UpdatedAt, time.Minute)
}
