package http

import (
	"net/http"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/sanitize"
	"coursehub/internal/validate"
)

const dateLayout = "2006-01-02"

type assignmentView struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Files       []string `json:"files"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func newAssignmentView(a model.Assignment) assignmentView {
	return assignmentView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate.Format(dateLayout),
		Files:       a.Files,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	switch res := r.URL.Query().Get("resource"); res {
	case "", "assignments":
		s.assignmentsResource(w, r)
	case "comments":
		s.assignmentCommentsResource(w, r)
	default:
		writeError(w, http.StatusBadRequest, "Unknown resource")
	}
}

func (s *Server) assignmentsResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("id") != "" {
			s.getAssignment(w, r)
			return
		}
		s.listAssignments(w, r)
	case http.MethodPost:
		s.createAssignment(w, r)
	case http.MethodPut:
		s.updateAssignment(w, r)
	case http.MethodDelete:
		s.deleteAssignment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := s.store.ListAssignments(r.Context(), listOptions(r))
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	views := make([]assignmentView, len(assignments))
	for i, a := range assignments {
		views[i] = newAssignmentView(a)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}
	assignment, err := s.store.GetAssignment(r.Context(), id)
	if err != nil {
		storageError(w, err, "Assignment not found", "")
		return
	}
	writeData(w, http.StatusOK, newAssignmentView(*assignment))
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		DueDate     string   `json:"due_date"`
		Files       []string `json:"files"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Title = sanitize.Clean(req.Title)
	req.Description = sanitize.Clean(req.Description)
	req.DueDate = sanitize.Clean(req.DueDate)
	for i, f := range req.Files {
		req.Files[i] = sanitize.Clean(f)
	}
	if err := validate.Required(
		validate.FieldValue{Name: "title", Value: req.Title},
		validate.FieldValue{Name: "description", Value: req.Description},
		validate.FieldValue{Name: "due_date", Value: req.DueDate},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Date("due_date", req.DueDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dueDate, _ := time.Parse(dateLayout, req.DueDate)

	assignment, err := s.store.CreateAssignment(r.Context(), req.Title, req.Description, dueDate, req.Files)
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	writeData(w, http.StatusCreated, newAssignmentView(*assignment))
}

func (s *Server) updateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          int64     `json:"id"`
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		DueDate     *string   `json:"due_date"`
		Files       *[]string `json:"files"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}

	var upd repository.AssignmentUpdate
	if req.Title != nil {
		title := sanitize.Clean(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title: is required")
			return
		}
		upd.Title = &title
	}
	if req.Description != nil {
		description := sanitize.Clean(*req.Description)
		upd.Description = &description
	}
	if req.DueDate != nil {
		raw := sanitize.Clean(*req.DueDate)
		if err := validate.Date("due_date", raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dueDate, _ := time.Parse(dateLayout, raw)
		upd.DueDate = &dueDate
	}
	if req.Files != nil {
		files := make([]string, len(*req.Files))
		for i, f := range *req.Files {
			files[i] = sanitize.Clean(f)
		}
		upd.Files = &files
	}

	if err := s.store.UpdateAssignment(r.Context(), req.ID, upd); err != nil {
		storageError(w, err, "Assignment not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Assignment updated successfully")
}

func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	raw := stringID(r, "id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}
	if err := s.store.DeleteAssignment(r.Context(), id); err != nil {
		storageError(w, err, "Assignment not found", "Assignment was already deleted")
		return
	}
	writeMessage(w, http.StatusOK, "Assignment deleted successfully")
}

func (s *Server) assignmentCommentsResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listAssignmentComments(w, r)
	case http.MethodPost:
		s.createAssignmentComment(w, r)
	case http.MethodDelete:
		s.deleteAssignmentComment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type assignmentCommentView struct {
	ID           int64  `json:"id"`
	AssignmentID int64  `json:"assignment_id"`
	Author       string `json:"author"`
	Text         string `json:"text"`
	CreatedAt    string `json:"created_at"`
}

func newAssignmentCommentView(c model.AssignmentComment) assignmentCommentView {
	return assignmentCommentView{
		ID:           c.ID,
		AssignmentID: c.AssignmentID,
		Author:       c.Author,
		Text:         c.Text,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) listAssignmentComments(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := parseID(r.URL.Query().Get("assignment_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "assignment_id: is required")
		return
	}
	comments, err := s.store.ListAssignmentComments(r.Context(), assignmentID)
	if err != nil {
		storageError(w, err, "Assignment not found", "")
		return
	}
	views := make([]assignmentCommentView, len(comments))
	for i, c := range comments {
		views[i] = newAssignmentCommentView(c)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) createAssignmentComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignmentID int64  `json:"assignment_id"`
		Author       string `json:"author"`
		Text         string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Author = sanitize.Clean(req.Author)
	req.Text = sanitize.Clean(req.Text)
	if req.AssignmentID == 0 {
		writeError(w, http.StatusBadRequest, "assignment_id: is required")
		return
	}
	if err := validate.Required(
		validate.FieldValue{Name: "author", Value: req.Author},
		validate.FieldValue{Name: "text", Value: req.Text},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := s.store.CreateAssignmentComment(r.Context(), req.AssignmentID, req.Author, req.Text)
	if err != nil {
		storageError(w, err, "Assignment not found", "")
		return
	}
	writeData(w, http.StatusCreated, newAssignmentCommentView(*comment))
}

func (s *Server) deleteAssignmentComment(w http.ResponseWriter, r *http.Request) {
	raw := stringID(r, "id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	if err := s.store.DeleteAssignmentComment(r.Context(), id); err != nil {
		storageError(w, err, "Comment not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}
