package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// refreshViewMsg asks every view on the stack to reload its data after a
// mutation made in a view above it.
type refreshViewMsg struct{}

// noticeMsg carries a transient status line (success or recoverable
// failure) shown above the active view.
type noticeMsg struct {
	text  string
	isErr bool
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// notify returns a tea.Cmd that displays a transient notice.
func notify(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text, isErr: isErr} }
}

// refreshViews returns a tea.Cmd that broadcasts a reload to all views.
func refreshViews() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}
