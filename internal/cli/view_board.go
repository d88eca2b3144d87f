package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// boardLoadedMsg signals that a pipeline refresh finished.
type boardLoadedMsg struct {
	err error
}

// transitionDoneMsg carries the result of an asynchronous stage move.
type transitionDoneMsg struct {
	item   *domain.PipelineItem
	issued bool
	err    error
}

// boardView is the kanban home view: one column per stage, cards annotated
// with urgency badges. A card can be moved by the grab/hover/drop gesture
// or through the action menu; both paths issue the same store transition.
type boardView struct {
	state *SharedState
	drag  *pipeline.DragController

	columns map[domain.Stage][]*domain.PipelineItem
	col     int // cursor column, index into domain.AllStages
	row     int // cursor row within the column

	loading bool
	err     error
}

func newBoardView(state *SharedState) *boardView {
	return &boardView{
		state:   state,
		drag:    pipeline.NewDragController(state.Store),
		columns: make(map[domain.Stage][]*domain.PipelineItem),
		loading: true,
	}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }

func (v *boardView) ShortHelp() []key.Binding {
	if v.drag.Dragging() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "hover column")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l", "j", "k"), key.WithHelp("hjkl", "nav")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "actions")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next stage")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outcome")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deadlines")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *boardView) Init() tea.Cmd {
	return v.loadBoard()
}

func (v *boardView) loadBoard() tea.Cmd {
	store := v.state.Store
	return func() tea.Msg {
		return boardLoadedMsg{err: store.Refresh(context.Background())}
	}
}

// rebuild refreshes the column snapshot from the store.
func (v *boardView) rebuild() {
	for _, stage := range domain.AllStages {
		v.columns[stage] = v.state.Store.ItemsByStage(stage)
	}
	v.clampCursor()
}

func (v *boardView) clampCursor() {
	if v.col < 0 {
		v.col = 0
	}
	if v.col >= len(domain.AllStages) {
		v.col = len(domain.AllStages) - 1
	}
	n := len(v.columns[domain.AllStages[v.col]])
	if v.row >= n {
		v.row = n - 1
	}
	if v.row < 0 {
		v.row = 0
	}
}

// currentItem returns the card under the cursor, or nil.
func (v *boardView) currentItem() *domain.PipelineItem {
	items := v.columns[domain.AllStages[v.col]]
	if v.row < 0 || v.row >= len(items) {
		return nil
	}
	return items[v.row]
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// The store keeps its last-known-good contents; show the
			// stale board rather than an empty one.
			v.err = msg.err
			v.rebuild()
			return v, notify("Refresh failed: "+msg.err.Error(), true)
		}
		v.err = nil
		v.rebuild()
		return v, nil

	case refreshViewMsg:
		v.rebuild()
		return v, nil

	case transitionDoneMsg:
		v.rebuild()
		if msg.err != nil {
			return v, notify("Move failed: "+msg.err.Error()+" — card restored", true)
		}
		if msg.issued && msg.item != nil {
			return v, notify(fmt.Sprintf("Moved %q to %s", msg.item.Opportunity.Title, msg.item.Stage.Label()), false)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *boardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.drag.Dragging() {
		return v.handleDragKey(msg)
	}

	switch msg.String() {
	case "left", "h":
		if v.col > 0 {
			v.col--
			v.clampCursor()
		}
	case "right", "l":
		if v.col < len(domain.AllStages)-1 {
			v.col++
			v.clampCursor()
		}
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.row < len(v.columns[domain.AllStages[v.col]])-1 {
			v.row++
		}
	case "g", " ":
		if item := v.currentItem(); item != nil {
			if err := v.drag.Grab(item.ID); err == nil {
				v.drag.HoverColumn(item.Stage)
			}
		}
	case "enter":
		if item := v.currentItem(); item != nil {
			return v, pushView(newActionMenuView(v.state, item))
		}
	case "n":
		if item := v.currentItem(); item != nil {
			if next, ok := domain.NextStage(item.Stage); ok {
				return v, v.moveCmd(item.ID, next)
			}
		}
	case "o":
		if item := v.currentItem(); item != nil {
			return v, pushView(newFeedbackView(v.state, item))
		}
	case "d":
		return v, pushView(newAgendaView(v.state))
	case "x":
		if item := v.currentItem(); item != nil {
			return v, pushView(newDeleteConfirmView(v.state, item))
		}
	case "r":
		v.loading = true
		return v, v.loadBoard()
	}
	return v, nil
}

func (v *boardView) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if v.col > 0 {
			v.col--
		}
		v.drag.HoverColumn(domain.AllStages[v.col])
	case "right", "l":
		if v.col < len(domain.AllStages)-1 {
			v.col++
		}
		v.drag.HoverColumn(domain.AllStages[v.col])
	case "enter", " ", "g":
		drag := v.drag
		return v, func() tea.Msg {
			item, issued, err := drag.Release(context.Background())
			return transitionDoneMsg{item: item, issued: issued, err: err}
		}
	case "esc":
		v.drag.Cancel()
	}
	v.clampCursor()
	return v, nil
}

// moveCmd issues a stage transition through the store — the same call the
// drop gesture makes.
func (v *boardView) moveCmd(itemID string, target domain.Stage) tea.Cmd {
	store := v.state.Store
	return func() tea.Msg {
		item, err := store.RequestTransition(context.Background(), itemID, target)
		return transitionDoneMsg{item: item, issued: true, err: err}
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

const (
	minColWidth = 14
	colGap      = 1
)

func (v *boardView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading pipeline...")
	}

	colWidth := minColWidth
	if v.state.Width > 0 {
		if w := (v.state.Width - colGap*(len(domain.AllStages)-1)) / len(domain.AllStages); w > colWidth {
			colWidth = w
		}
	}

	hover, hovering := v.drag.Hover()

	cols := make([]string, 0, len(domain.AllStages))
	for ci, stage := range domain.AllStages {
		cols = append(cols, v.renderColumn(stage, ci == v.col, hovering && hover == stage, colWidth))
	}

	gap := strings.Repeat(" ", colGap)
	joined := cols[0]
	for _, c := range cols[1:] {
		joined = lipgloss.JoinHorizontal(lipgloss.Top, joined, gap, c)
	}
	return "\n" + joined
}

func (v *boardView) renderColumn(stage domain.Stage, isCursorCol, isHovered bool, width int) string {
	items := v.columns[stage]

	headStyle := formatter.StageColor(stage).Bold(true)
	head := headStyle.Render(strings.ToUpper(stage.Label())) + formatter.Dim(fmt.Sprintf(" %d", len(items)))
	underline := formatter.Dim(strings.Repeat("─", width))
	if isHovered {
		underline = formatter.StyleHeader.Render(strings.Repeat("═", width))
	}

	var lines []string
	lines = append(lines, head, underline)

	for ri, item := range items {
		lines = append(lines, v.renderCard(item, isCursorCol && ri == v.row, width))
	}
	if len(items) == 0 {
		lines = append(lines, formatter.Dim("—"))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (v *boardView) renderCard(item *domain.PipelineItem, isCursor bool, width int) string {
	cursor := " "
	titleStyle := formatter.StyleFg
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸")
		titleStyle = formatter.StyleBold
	}
	if v.drag.Dragging() && v.drag.ItemID() == item.ID {
		cursor = formatter.StyleHeader.Render("✥")
		titleStyle = formatter.StyleHeader
	}

	badge := ""
	if !item.Stage.IsTerminal() {
		u := urgency.Classify(item.Deadline, v.state.Now())
		if u.Tier != urgency.TierNone {
			badge = " " + formatter.UrgencyBadge(u)
		}
	}

	title := formatter.Truncate(item.Opportunity.Title, width-4)
	line := fmt.Sprintf("%s %s%s", cursor, titleStyle.Render(title), badge)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
