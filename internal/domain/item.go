package domain

import "time"

// Opportunity is the read-only reference data a pipeline item points at.
// It is owned by the matching service; this side never mutates it.
type Opportunity struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Deadline *time.Time `json:"deadline,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// PipelineItem is a tracked attempt at a specific opportunity. The item has
// exactly one stage at any time; all stage writes go through ApplyStage.
type PipelineItem struct {
	ID          string      `json:"id"`
	Opportunity Opportunity `json:"opportunity"`
	Stage       Stage       `json:"stage"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ApplyStage moves the item to target. Moving to the current stage is an
// idempotent no-op, not an error. Any defined stage is reachable from any
// other; only an undefined target fails, with InvalidTargetError.
func (p *PipelineItem) ApplyStage(target Stage, now time.Time) error {
	if !target.Valid() {
		return &InvalidTargetError{Target: target}
	}
	if p.Stage == target {
		return nil
	}
	p.Stage = target
	p.UpdatedAt = now
	return nil
}

// Clone returns a copy of the item. The store hands out clones so callers
// cannot mutate its working set behind its back.
func (p *PipelineItem) Clone() *PipelineItem {
	c := *p
	if p.Deadline != nil {
		d := *p.Deadline
		c.Deadline = &d
	}
	if p.Opportunity.Deadline != nil {
		d := *p.Opportunity.Deadline
		c.Opportunity.Deadline = &d
	}
	return &c
}
