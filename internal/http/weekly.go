package http

import (
	"net/http"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/sanitize"
	"coursehub/internal/validate"
)

type weekView struct {
	ID          int64    `json:"id"`
	WeekID      string   `json:"week_id"`
	Title       string   `json:"title"`
	StartDate   string   `json:"start_date"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func newWeekView(wk model.Week) weekView {
	return weekView{
		ID:          wk.ID,
		WeekID:      wk.WeekID,
		Title:       wk.Title,
		StartDate:   wk.StartDate.Format(dateLayout),
		Description: wk.Description,
		Links:       wk.Links,
		CreatedAt:   wk.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   wk.UpdatedAt.Format(time.RFC3339),
	}
}

type weekCommentView struct {
	ID        int64  `json:"id"`
	WeekID    string `json:"week_id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func newWeekCommentView(c model.WeekComment) weekCommentView {
	return weekCommentView{
		ID:        c.ID,
		WeekID:    c.WeekID,
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	switch res := r.URL.Query().Get("resource"); res {
	case "", "weeks":
		s.weeksResource(w, r)
	case "comments":
		s.weekCommentsResource(w, r)
	default:
		writeError(w, http.StatusBadRequest, "Unknown resource")
	}
}

func (s *Server) weeksResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if weekID := r.URL.Query().Get("week_id"); weekID != "" {
			s.getWeek(w, r, weekID)
			return
		}
		s.listWeeks(w, r)
	case http.MethodPost:
		s.createWeek(w, r)
	case http.MethodPut:
		s.updateWeek(w, r)
	case http.MethodDelete:
		s.deleteWeek(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.store.ListWeeks(r.Context(), listOptions(r))
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	views := make([]weekView, len(weeks))
	for i, wk := range weeks {
		views[i] = newWeekView(wk)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) getWeek(w http.ResponseWriter, r *http.Request, weekID string) {
	week, err := s.store.GetWeek(r.Context(), weekID)
	if err != nil {
		storageError(w, err, "Week not found", "")
		return
	}
	writeData(w, http.StatusOK, newWeekView(*week))
}

func (s *Server) createWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekID      string   `json:"week_id"`
		Title       string   `json:"title"`
		StartDate   string   `json:"start_date"`
		Description string   `json:"description"`
		Links       []string `json:"links"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.WeekID = sanitize.Clean(req.WeekID)
	req.Title = sanitize.Clean(req.Title)
	req.StartDate = sanitize.Clean(req.StartDate)
	req.Description = sanitize.Clean(req.Description)
	for i, l := range req.Links {
		req.Links[i] = sanitize.Clean(l)
	}
	if err := validate.Required(
		validate.FieldValue{Name: "week_id", Value: req.WeekID},
		validate.FieldValue{Name: "title", Value: req.Title},
		validate.FieldValue{Name: "start_date", Value: req.StartDate},
		validate.FieldValue{Name: "description", Value: req.Description},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Date("start_date", req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDate, _ := time.Parse(dateLayout, req.StartDate)

	week, err := s.store.CreateWeek(r.Context(), req.WeekID, req.Title, startDate, req.Description, req.Links)
	if err != nil {
		storageError(w, err, "", "Week already exists")
		return
	}
	writeData(w, http.StatusCreated, newWeekView(*week))
}

func (s *Server) updateWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekID      string    `json:"week_id"`
		Title       *string   `json:"title"`
		StartDate   *string   `json:"start_date"`
		Description *string   `json:"description"`
		Links       *[]string `json:"links"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.WeekID = sanitize.Clean(req.WeekID)
	if req.WeekID == "" {
		writeError(w, http.StatusBadRequest, "week_id: is required")
		return
	}

	var upd repository.WeekUpdate
	if req.Title != nil {
		title := sanitize.Clean(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title: is required")
			return
		}
		upd.Title = &title
	}
	if req.StartDate != nil {
		raw := sanitize.Clean(*req.StartDate)
		if err := validate.Date("start_date", raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		startDate, _ := time.Parse(dateLayout, raw)
		upd.StartDate = &startDate
	}
	if req.Description != nil {
		description := sanitize.Clean(*req.Description)
		upd.Description = &description
	}
	if req.Links != nil {
		links := make([]string, len(*req.Links))
		for i, l := range *req.Links {
			links[i] = sanitize.Clean(l)
		}
		upd.Links = &links
	}

	if err := s.store.UpdateWeek(r.Context(), req.WeekID, upd); err != nil {
		storageError(w, err, "Week not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Week updated successfully")
}

func (s *Server) deleteWeek(w http.ResponseWriter, r *http.Request) {
	weekID := stringID(r, "week_id")
	if weekID == "" {
		writeError(w, http.StatusBadRequest, "week_id: is required")
		return
	}
	if err := s.store.DeleteWeek(r.Context(), weekID); err != nil {
		storageError(w, err, "Week not found", "Week was already deleted")
		return
	}
	writeMessage(w, http.StatusOK, "Week deleted successfully")
}

func (s *Server) weekCommentsResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listWeekComments(w, r)
	case http.MethodPost:
		s.createWeekComment(w, r)
	case http.MethodDelete:
		s.deleteWeekComment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listWeekComments(w http.ResponseWriter, r *http.Request) {
	weekID := r.URL.Query().Get("week_id")
	if weekID == "" {
		writeError(w, http.StatusBadRequest, "week_id: is required")
		return
	}
	comments, err := s.store.ListWeekComments(r.Context(), weekID)
	if err != nil {
		storageError(w, err, "Week not found", "")
		return
	}
	views := make([]weekCommentView, len(comments))
	for i, c := range comments {
		views[i] = newWeekCommentView(c)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) createWeekComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekID string `json:"week_id"`
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.WeekID = sanitize.Clean(req.WeekID)
	req.Author = sanitize.Clean(req.Author)
	req.Text = sanitize.Clean(req.Text)
	if err := validate.Required(
		validate.FieldValue{Name: "week_id", Value: req.WeekID},
		validate.FieldValue{Name: "author", Value: req.Author},
		validate.FieldValue{Name: "text", Value: req.Text},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := s.store.CreateWeekComment(r.Context(), req.WeekID, req.Author, req.Text)
	if err != nil {
		storageError(w, err, "Week not found", "")
		return
	}
	writeData(w, http.StatusCreated, newWeekCommentView(*comment))
}

func (s *Server) deleteWeekComment(w http.ResponseWriter, r *http.Request) {
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
	if err := s.store.DeleteWeekComment(r.Context(), id); err != nil {
		storageError(w, err, "Comment not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}
