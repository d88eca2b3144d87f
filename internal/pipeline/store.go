package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// ErrItemNotFound is returned when an operation references an item that is
// not in the working set.
var ErrItemNotFound = errors.New("pipeline: item not found")

// TransitionRejectedError reports that the collaborator refused a stage
// transition. The local item has already been rolled back to its
// pre-transition stage; the failure is recoverable, not fatal.
type TransitionRejectedError struct {
	ItemID string
	From   domain.Stage
	To     domain.Stage
	Cause  error
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition of %s to %s rejected: %v", e.ItemID, e.To, e.Cause)
}

func (e *TransitionRejectedError) Unwrap() error { return e.Cause }

// loadPageSize is the page size used when refreshing from the collaborator.
const loadPageSize = 100

// Store holds the authoritative working set of pipeline items for the
// current session. It is the single mutable shared resource: every stage
// write funnels through RequestTransition, whether it originates from a
// drag gesture, a menu action, or the feedback wizard.
//
// Stage writes are applied optimistically and reconciled against the
// collaborator's response. A per-item issuance sequence number makes
// last-write-wins structural: a response belonging to request N is discarded
// whenever a request newer than N was issued for the same item, regardless
// of the order responses arrive in.
type Store struct {
	mu     sync.Mutex
	remote Collaborator

	items []*domain.PipelineItem // insertion order, never silently reordered
	seq   map[string]uint64      // itemID -> last issued transition seq

	staleDiscards int

	now func() time.Time
}

// NewStore creates an empty store backed by the given collaborator.
func NewStore(remote Collaborator) *Store {
	return &Store{
		remote: remote,
		seq:    make(map[string]uint64),
		now:    time.Now,
	}
}

// SetNowFunc overrides the clock used for optimistic timestamps.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load replaces the working set wholesale with a fresh snapshot from the
// collaborator.
func (s *Store) Load(items []*domain.PipelineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]*domain.PipelineItem, 0, len(items))
	for _, item := range items {
		s.items = append(s.items, item.Clone())
	}
}

// Refresh pulls all pages from the collaborator and replaces the working
// set. On failure the store keeps its last-known-good contents; retry
// policy lives at the collaborator boundary, not here.
func (s *Store) Refresh(ctx context.Context) error {
	var all []*domain.PipelineItem
	for offset := 0; ; offset += loadPageSize {
		page, err := s.remote.ListPipeline(ctx, loadPageSize, offset)
		if err != nil {
			return fmt.Errorf("refreshing pipeline: %w", err)
		}
		all = append(all, page...)
		if len(page) < loadPageSize {
			break
		}
	}
	s.Load(all)
	return nil
}

// Items returns a copy of the full working set in insertion order.
func (s *Store) Items() []*domain.PipelineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.PipelineItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Clone())
	}
	return out
}

// ItemsByStage returns the items currently in the given stage, preserving
// insertion order.
func (s *Store) ItemsByStage(stage domain.Stage) []*domain.PipelineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PipelineItem
	for _, item := range s.items {
		if item.Stage == stage {
			out = append(out, item.Clone())
		}
	}
	return out
}

// Get returns a copy of one item by ID.
func (s *Store) Get(itemID string) (*domain.PipelineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.find(itemID)
	if item == nil {
		return nil, false
	}
	return item.Clone(), true
}

// Len returns the working set size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// StaleDiscards reports how many collaborator responses were dropped by the
// last-write-wins rule. Internal bookkeeping, never surfaced to the user.
func (s *Store) StaleDiscards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staleDiscards
}

// RequestTransition validates and applies a stage transition. The local
// copy is updated before the collaborator confirms, so the UI stays
// responsive; on rejection the item is rolled back and a
// TransitionRejectedError returned. Transitioning to the current stage is
// an idempotent no-op that never reaches the collaborator.
func (s *Store) RequestTransition(ctx context.Context, itemID string, target domain.Stage) (*domain.PipelineItem, error) {
	s.mu.Lock()
	item := s.find(itemID)
	if item == nil {
		s.mu.Unlock()
		return nil, ErrItemNotFound
	}
	if !target.Valid() {
		s.mu.Unlock()
		return nil, &domain.InvalidTargetError{Target: target}
	}
	from := item.Stage
	if from == target {
		clone := item.Clone()
		s.mu.Unlock()
		return clone, nil
	}

	s.seq[itemID]++
	issued := s.seq[itemID]

	// Optimistic update: reflected locally before the collaborator answers.
	item.Stage = target
	item.UpdatedAt = s.now()
	s.mu.Unlock()

	updated, err := s.remote.MoveStage(ctx, itemID, target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq[itemID] != issued {
		// A newer request was issued for this item while we were in
		// flight; its result owns the final state, ours is discarded.
		s.staleDiscards++
		if current := s.find(itemID); current != nil {
			return current.Clone(), nil
		}
		return nil, ErrItemNotFound
	}

	current := s.find(itemID)
	if current == nil {
		return nil, ErrItemNotFound
	}

	if err != nil {
		current.Stage = from
		return nil, &TransitionRejectedError{ItemID: itemID, From: from, To: target, Cause: err}
	}

	*current = *updated.Clone()
	return current.Clone(), nil
}

// RecordOutcome applies the stage transition a feedback record implies and
// hands the record to the collaborator. The two form one logical unit: if
// the transition is rejected the record is not submitted, and the caller
// keeps it for retry. Retrying after a partial failure is safe because the
// repeated transition is an idempotent no-op.
func (s *Store) RecordOutcome(ctx context.Context, rec *domain.FeedbackRecord) (*domain.PipelineItem, error) {
	item, err := s.RequestTransition(ctx, rec.ItemID, rec.Outcome.TargetStage())
	if err != nil {
		return nil, err
	}
	if err := s.remote.SubmitFeedback(ctx, rec); err != nil {
		return item, fmt.Errorf("submitting feedback: %w", err)
	}
	return item, nil
}

// Remove hard-deletes an item from the working set and the collaborator.
// This is the destructive path; archiving belongs to the Lost stage.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	s.mu.Lock()
	if s.find(itemID) == nil {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	s.mu.Unlock()

	if err := s.remote.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	delete(s.seq, itemID)
	return nil
}

// Restore re-stages a previously archived item. Discovered is the
// conventional restore target, but any defined stage is accepted.
func (s *Store) Restore(ctx context.Context, itemID string, toStage domain.Stage) (*domain.PipelineItem, error) {
	if !toStage.Valid() {
		return nil, &domain.InvalidTargetError{Target: toStage}
	}

	updated, err := s.remote.RestoreItem(ctx, itemID, toStage)
	if err != nil {
		return nil, fmt.Errorf("restoring item %s: %w", itemID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.find(itemID); current != nil {
		*current = *updated.Clone()
		return current.Clone(), nil
	}
	s.items = append(s.items, updated.Clone())
	return updated.Clone(), nil
}

// find returns the live item pointer, or nil. Callers must hold s.mu.
func (s *Store) find(itemID string) *domain.PipelineItem {
	for _, item := range s.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
