package pipeline

import (
	"context"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// Collaborator is the remote persistence service that owns pipeline items
// long-term. The store reconciles with it after every mutation; it is the
// source of truth for an item's authoritative stage.
type Collaborator interface {
	// ListPipeline returns one page of the user's pipeline items.
	ListPipeline(ctx context.Context, limit, offset int) ([]*domain.PipelineItem, error)
	// MoveStage persists a stage transition and returns the updated item.
	MoveStage(ctx context.Context, itemID string, target domain.Stage) (*domain.PipelineItem, error)
	// DeleteItem removes an item permanently. Distinct from archiving to Lost.
	DeleteItem(ctx context.Context, itemID string) error
	// RestoreItem re-stages a previously archived item.
	RestoreItem(ctx context.Context, itemID string, toStage domain.Stage) (*domain.PipelineItem, error)
	// SubmitFeedback hands off a completed feedback record. Where it is
	// stored is the collaborator's concern.
	SubmitFeedback(ctx context.Context, rec *domain.FeedbackRecord) error
}
