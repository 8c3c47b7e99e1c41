package authclient

import "sync"

// Theme is the UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AppState holds transient UI state that is neither session nor
// notification: the theme and the currently selected task. It resets on
// process restart by design.
type AppState struct {
	mu           sync.Mutex
	theme        Theme
	selectedTask *Task
}

// NewAppState starts with the light theme and no selection.
func NewAppState() *AppState {
	return &AppState{theme: ThemeLight}
}

// Theme returns the active theme
func (s *AppState) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips between light and dark and returns the new theme
func (s *AppState) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == ThemeLight {
		s.theme = ThemeDark
	} else {
		s.theme = ThemeLight
	}
	return s.theme
}

// SelectedTask returns the selected task, or nil
func (s *AppState) SelectedTask() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedTask == nil {
		return nil
	}
	task := *s.selectedTask
	return &task
}

// SetSelectedTask replaces the selection; nil clears it
func (s *AppState) SetSelectedTask(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task == nil {
		s.selectedTask = nil
		return
	}
	copied := *task
	s.selectedTask = &copied
}
