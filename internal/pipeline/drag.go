package pipeline

import (
	"context"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// gesturePhase tracks where a card-move gesture currently is.
type gesturePhase int

const (
	phaseIdle gesturePhase = iota
	phaseDragging
	phaseHovering
)

// DragController translates a card-move gesture (grab, hover a column,
// release) into at most one transition request against the store. It never
// mutates item data itself: a drop issues the exact same RequestTransition
// call a menu-driven "move to stage" action does, so both input paths share
// one set of invariants.
type DragController struct {
	store *Store

	phase  gesturePhase
	itemID string
	hover  domain.Stage
}

// NewDragController creates an idle controller bound to the store.
func NewDragController(store *Store) *DragController {
	return &DragController{store: store}
}

// Grab starts a gesture on the given item. Grabbing while another gesture
// is active supersedes it, as if the first had been cancelled.
func (d *DragController) Grab(itemID string) error {
	if _, ok := d.store.Get(itemID); !ok {
		return ErrItemNotFound
	}
	d.phase = phaseDragging
	d.itemID = itemID
	d.hover = ""
	return nil
}

// HoverColumn marks the column the pointer is currently over. Re-entrant:
// the gesture can move between columns freely. Ignored when idle or when
// the stage is undefined.
func (d *DragController) HoverColumn(stage domain.Stage) {
	if d.phase == phaseIdle || !stage.Valid() {
		return
	}
	d.phase = phaseHovering
	d.hover = stage
}

// ClearHover records that the pointer left all drop targets without ending
// the gesture.
func (d *DragController) ClearHover() {
	if d.phase == phaseHovering {
		d.phase = phaseDragging
		d.hover = ""
	}
}

// Release ends the gesture. Released over a column whose stage differs from
// the item's current stage, it issues exactly one transition request and
// returns the resulting item with issued=true. Released with no hover
// target, or over the item's own column, it is a pure no-op. The controller
// is idle again in every case.
func (d *DragController) Release(ctx context.Context) (item *domain.PipelineItem, issued bool, err error) {
	if d.phase == phaseIdle {
		return nil, false, nil
	}

	itemID := d.itemID
	hover := d.hover
	hovering := d.phase == phaseHovering
	d.reset()

	if !hovering {
		return nil, false, nil
	}
	current, ok := d.store.Get(itemID)
	if !ok {
		return nil, false, ErrItemNotFound
	}
	if current.Stage == hover {
		return nil, false, nil
	}

	updated, err := d.store.RequestTransition(ctx, itemID, hover)
	if err != nil {
		return nil, true, err
	}
	return updated, true, nil
}

// Cancel aborts the gesture with zero side effects.
func (d *DragController) Cancel() {
	d.reset()
}

// Dragging reports whether a gesture is in progress.
func (d *DragController) Dragging() bool { return d.phase != phaseIdle }

// ItemID returns the grabbed item's ID, or "" when idle.
func (d *DragController) ItemID() string { return d.itemID }

// Hover returns the currently hovered column, if any.
func (d *DragController) Hover() (domain.Stage, bool) {
	if d.phase != phaseHovering {
		return "", false
	}
	return d.hover, true
}

func (d *DragController) reset() {
	d.phase = phaseIdle
	d.itemID = ""
	d.hover = ""
}
