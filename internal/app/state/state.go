// Package state holds the navigation and view state of the single-user UI:
// which screen is shown, the fetched course and material lists, the chat
// history of the open course and one-shot notices. It is the server-side
// counterpart of the original browser-side component state: lists are owned
// by the view that fetched them and discarded on navigation, and concurrent
// updates are last-write-wins.
package state

import (
	"sync"

	"github.com/ursmart/webapp/internal/app/models"
)

// KarmaAlert is a pending karma-gain toast. Rendered once, then consumed.
type KarmaAlert struct {
	Karma int
	Level string
}

// AppState is the process-wide UI state.
type AppState struct {
	mu sync.RWMutex

	enteredApp bool

	courses     []models.Course
	searched    bool
	searchError string

	selectedCourse *models.Course
	materials      []models.Material
	materialsError string

	chatSelection []int64
	chatHistory   []models.ChatTurn

	karmaAlert *KarmaAlert
	notice     string
}

// New creates an empty AppState showing the landing screen.
func New() *AppState {
	return &AppState{}
}

// EnterApp leaves the landing screen for the main application.
func (s *AppState) EnterApp() {
	s.mu.Lock()
	s.enteredApp = true
	s.mu.Unlock()
}

// EnteredApp reports whether the landing screen has been dismissed.
func (s *AppState) EnteredApp() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enteredApp
}

// ResetNavigation is the logo click: back to the course list with search
// results dropped, session untouched.
func (s *AppState) ResetNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = nil
	s.searched = false
	s.searchError = ""
	s.clearCourseLocked()
}

// ResetAll clears everything view-related, used on logout.
func (s *AppState) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enteredApp = false
	s.courses = nil
	s.searched = false
	s.searchError = ""
	s.karmaAlert = nil
	s.notice = ""
	s.clearCourseLocked()
}

// SetCourses replaces the displayed course collection with a search result
// and clears any open course-detail view.
func (s *AppState) SetCourses(courses []models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = courses
	s.searched = true
	s.searchError = ""
	s.clearCourseLocked()
}

// Courses returns the current course list and whether a search produced it.
func (s *AppState) Courses() ([]models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Course(nil), s.courses...), s.searched
}

// SetSearchError records the inline search-bar message.
func (s *AppState) SetSearchError(msg string) {
	s.mu.Lock()
	s.searchError = msg
	s.mu.Unlock()
}

// SearchError returns the inline search-bar message.
func (s *AppState) SearchError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchError
}

// SelectCourse opens the course-detail view. Materials and chat state of a
// previously open course are discarded.
func (s *AppState) SelectCourse(course models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := course
	s.selectedCourse = &c
	s.materials = nil
	s.materialsError = ""
	s.chatSelection = nil
	s.chatHistory = nil
}

// ClearCourse is the back navigation from the detail view.
func (s *AppState) ClearCourse() {
	s.mu.Lock()
	s.clearCourseLocked()
	s.mu.Unlock()
}

func (s *AppState) clearCourseLocked() {
	s.selectedCourse = nil
	s.materials = nil
	s.materialsError = ""
	s.chatSelection = nil
	s.chatHistory = nil
}

// SelectedCourse returns a copy of the open course, nil when on the list.
func (s *AppState) SelectedCourse() *models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedCourse == nil {
		return nil
	}
	c := *s.selectedCourse
	return &c
}

// SetMaterials replaces the material list of the open course.
func (s *AppState) SetMaterials(materials []models.Material) {
	s.mu.Lock()
	s.materials = materials
	s.materialsError = ""
	s.mu.Unlock()
}

// Materials returns the material list of the open course.
func (s *AppState) Materials() []models.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Material(nil), s.materials...)
}

// FindMaterial looks a material up by id in the loaded list.
func (s *AppState) FindMaterial(id int64) (models.Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.materials {
		if m.ID == id {
			return m, true
		}
	}
	return models.Material{}, false
}

// ReplaceMaterial swaps the list entry with the server's returned record.
// The last response to arrive wins; duplicate votes are not serialized.
func (s *AppState) ReplaceMaterial(updated models.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.materials {
		if m.ID == updated.ID {
			s.materials[i] = updated
			return
		}
	}
}

// SetMaterialsError records the resources-tab error banner.
func (s *AppState) SetMaterialsError(msg string) {
	s.mu.Lock()
	s.materialsError = msg
	s.mu.Unlock()
}

// MaterialsError returns the resources-tab error banner.
func (s *AppState) MaterialsError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.materialsError
}

// ToggleChatMaterial adds or removes a material from the chatbot context.
func (s *AppState) ToggleChatMaterial(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sel := range s.chatSelection {
		if sel == id {
			s.chatSelection = append(s.chatSelection[:i], s.chatSelection[i+1:]...)
			return
		}
	}
	s.chatSelection = append(s.chatSelection, id)
}

// ChatSelection returns the selected material ids in selection order.
func (s *AppState) ChatSelection() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.chatSelection...)
}

// ChatSelected reports whether a material is part of the chatbot context.
func (s *AppState) ChatSelected(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sel := range s.chatSelection {
		if sel == id {
			return true
		}
	}
	return false
}

// AppendChatTurn appends to the chat history of the open course.
func (s *AppState) AppendChatTurn(turn models.ChatTurn) {
	s.mu.Lock()
	s.chatHistory = append(s.chatHistory, turn)
	s.mu.Unlock()
}

// DropLastChatTurn removes the optimistically appended user turn after a
// failed chatbot call.
func (s *AppState) DropLastChatTurn() {
	s.mu.Lock()
	if n := len(s.chatHistory); n > 0 {
		s.chatHistory = s.chatHistory[:n-1]
	}
	s.mu.Unlock()
}

// ChatHistory returns the chat history of the open course.
func (s *AppState) ChatHistory() []models.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChatTurn(nil), s.chatHistory...)
}

// SetKarmaAlert schedules the karma toast for the next render.
func (s *AppState) SetKarmaAlert(karma int, level string) {
	s.mu.Lock()
	s.karmaAlert = &KarmaAlert{Karma: karma, Level: level}
	s.mu.Unlock()
}

// TakeKarmaAlert consumes the pending toast, nil when there is none.
func (s *AppState) TakeKarmaAlert() *KarmaAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert := s.karmaAlert
	s.karmaAlert = nil
	return alert
}

// SetNotice records a one-shot banner for actions without a dedicated error
// slot (vote, delete, upload, chat).
func (s *AppState) SetNotice(msg string) {
	s.mu.Lock()
	s.notice = msg
	s.mu.Unlock()
}

// TakeNotice consumes the pending banner.
func (s *AppState) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice := s.notice
	s.notice = ""
	return notice
}
