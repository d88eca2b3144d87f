package cli

import (
	"time"

	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// SharedState holds context shared across all views via pointer. The store
// is constructed once at startup and handed to every consumer; no view
// keeps a private copy of pipeline data.
type SharedState struct {
	Store      *pipeline.Store
	Thresholds urgency.Thresholds

	// Now supplies the wall clock for urgency computation, overridable
	// in tests.
	Now func() time.Time

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content, accounting
// for header (2 lines), notice line, and status bar (2 lines).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
