// Package testutil provides shared fixtures for pipeline tests: item
// builders with functional options and a scriptable in-memory collaborator.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// ItemOption mutates a fixture item during construction.
type ItemOption func(*domain.PipelineItem)

// WithStage places the item in the given stage.
func WithStage(s domain.Stage) ItemOption {
	return func(p *domain.PipelineItem) {
		p.Stage = s
	}
}

// WithDeadline sets both the item and opportunity deadline.
func WithDeadline(d time.Time) ItemOption {
	return func(p *domain.PipelineItem) {
		p.Deadline = &d
		p.Opportunity.Deadline = &d
	}
}

// WithID overrides the generated item ID.
func WithID(id string) ItemOption {
	return func(p *domain.PipelineItem) {
		p.ID = id
	}
}

// WithCategory sets the opportunity category.
func WithCategory(c string) ItemOption {
	return func(p *domain.PipelineItem) {
		p.Opportunity.Category = c
	}
}

// NewItem builds a pipeline item with defaults: discovered stage, no
// deadline, fixed creation timestamp.
func NewItem(title string, opts ...ItemOption) *domain.PipelineItem {
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	item := &domain.PipelineItem{
		ID: uuid.NewString(),
		Opportunity: domain.Opportunity{
			ID:       uuid.NewString(),
			Title:    title,
			Category: "hackathon",
		},
		Stage:     domain.StageDiscovered,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// MoveCall records one MoveStage invocation on the fake collaborator.
type MoveCall struct {
	ItemID string
	Target domain.Stage
}

// FakeCollaborator is an in-memory pipeline.Collaborator. By default every
// call succeeds immediately; tests can inject errors or gate responses on a
// channel to exercise in-flight interleavings.
type FakeCollaborator struct {
	mu sync.Mutex

	items []*domain.PipelineItem

	MoveCalls     []MoveCall
	FeedbackCalls []*domain.FeedbackRecord
	DeleteCalls   []string
	RestoreCalls  []MoveCall

	ListErr     error
	MoveErr     error
	FeedbackErr error
	DeleteErr   error
	RestoreErr  error

	// moveGates block MoveStage calls per target stage until the gate is
	// closed. Lets a test hold a response in flight while issuing more
	// requests, and release responses in a chosen order.
	moveGates map[domain.Stage]chan struct{}
}

// GateMove installs a gate for MoveStage calls targeting the given stage.
// The call records itself, then blocks until the returned channel is closed.
func (f *FakeCollaborator) GateMove(target domain.Stage) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveGates == nil {
		f.moveGates = make(map[domain.Stage]chan struct{})
	}
	ch := make(chan struct{})
	f.moveGates[target] = ch
	return ch
}

// NewFakeCollaborator seeds the fake with copies of the given items.
func NewFakeCollaborator(items ...*domain.PipelineItem) *FakeCollaborator {
	f := &FakeCollaborator{}
	for _, item := range items {
		f.items = append(f.items, item.Clone())
	}
	return f
}

func (f *FakeCollaborator) ListPipeline(ctx context.Context, limit, offset int) ([]*domain.PipelineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if offset >= len(f.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	out := make([]*domain.PipelineItem, 0, end-offset)
	for _, item := range f.items[offset:end] {
		out = append(out, item.Clone())
	}
	return out, nil
}

func (f *FakeCollaborator) MoveStage(ctx context.Context, itemID string, target domain.Stage) (*domain.PipelineItem, error) {
	f.mu.Lock()
	f.MoveCalls = append(f.MoveCalls, MoveCall{ItemID: itemID, Target: target})
	gate := f.moveGates[target]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MoveErr != nil {
		return nil, f.MoveErr
	}
	item := f.find(itemID)
	if item == nil {
		return nil, fmt.Errorf("fake: no item %s", itemID)
	}
	item.Stage = target
	item.UpdatedAt = item.UpdatedAt.Add(time.Minute)
	return item.Clone(), nil
}

func (f *FakeCollaborator) DeleteItem(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, itemID)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, item := range f.items {
		if item.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fake: no item %s", itemID)
}

func (f *FakeCollaborator) RestoreItem(ctx context.Context, itemID string, toStage domain.Stage) (*domain.PipelineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RestoreCalls = append(f.RestoreCalls, MoveCall{ItemID: itemID, Target: toStage})
	if f.RestoreErr != nil {
		return nil, f.RestoreErr
	}
	item := f.find(itemID)
	if item == nil {
		return nil, fmt.Errorf("fake: no item %s", itemID)
	}
	item.Stage = toStage
	return item.Clone(), nil
}

func (f *FakeCollaborator) SubmitFeedback(ctx context.Context, rec *domain.FeedbackRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FeedbackCalls = append(f.FeedbackCalls, rec)
	return f.FeedbackErr
}

// MoveCallCount returns how many MoveStage calls the fake has seen.
func (f *FakeCollaborator) MoveCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.MoveCalls)
}

func (f *FakeCollaborator) find(itemID string) *domain.PipelineItem {
	for _, item := range f.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
