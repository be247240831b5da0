package http

import (
	"net/http"

	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/sanitize"
	"coursehub/internal/validate"
)

type topicView struct {
	ID        int64  `json:"id"`
	TopicID   string `json:"topic_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func newTopicView(t model.Topic) topicView {
	return topicView{
		ID:        t.ID,
		TopicID:   t.TopicID,
		Subject:   t.Subject,
		Message:   t.Message,
		Author:    t.Author,
		CreatedAt: t.CreatedAt.Format(dateLayout),
	}
}

type replyView struct {
	ID        int64  `json:"id"`
	ReplyID   string `json:"reply_id"`
	TopicID   string `json:"topic_id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func newReplyView(r model.Reply) replyView {
	return replyView{
		ID:        r.ID,
		ReplyID:   r.ReplyID,
		TopicID:   r.TopicID,
		Text:      r.Text,
		Author:    r.Author,
		CreatedAt: r.CreatedAt.Format(dateLayout),
	}
}

// handleDiscussion requires the resource parameter; there is no default
// sub-resource for this family.
func (s *Server) handleDiscussion(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("resource") {
	case "topics":
		s.topicsResource(w, r)
	case "replies":
		s.repliesResource(w, r)
	default:
		writeError(w, http.StatusBadRequest, "Resource must be topics or replies")
	}
}

func (s *Server) topicsResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if topicID := r.URL.Query().Get("id"); topicID != "" {
			s.getTopic(w, r, topicID)
			return
		}
		s.listTopics(w, r)
	case http.MethodPost:
		s.createTopic(w, r)
	case http.MethodPut:
		s.updateTopic(w, r)
	case http.MethodDelete:
		s.deleteTopic(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.store.ListTopics(r.Context(), listOptions(r))
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	views := make([]topicView, len(topics))
	for i, t := range topics {
		views[i] = newTopicView(t)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) getTopic(w http.ResponseWriter, r *http.Request, topicID string) {
	topic, err := s.store.GetTopic(r.Context(), topicID)
	if err != nil {
		storageError(w, err, "Topic not found", "")
		return
	}
	writeData(w, http.StatusOK, newTopicView(*topic))
}

func (s *Server) createTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID string `json:"topic_id"`
		Subject string `json:"subject"`
		Message string `json:"message"`
		Author  string `json:"author"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.TopicID = sanitize.Clean(req.TopicID)
	req.Subject = sanitize.Clean(req.Subject)
	req.Message = sanitize.Clean(req.Message)
	req.Author = sanitize.Clean(req.Author)
	if err := validate.Required(
		validate.FieldValue{Name: "topic_id", Value: req.TopicID},
		validate.FieldValue{Name: "subject", Value: req.Subject},
		validate.FieldValue{Name: "message", Value: req.Message},
		validate.FieldValue{Name: "author", Value: req.Author},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topic, err := s.store.CreateTopic(r.Context(), req.TopicID, req.Subject, req.Message, req.Author)
	if err != nil {
		storageError(w, err, "", "Topic already exists")
		return
	}
	writeData(w, http.StatusCreated, newTopicView(*topic))
}

func (s *Server) updateTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID string  `json:"topic_id"`
		Subject *string `json:"subject"`
		Message *string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.TopicID = sanitize.Clean(req.TopicID)
	if req.TopicID == "" {
		writeError(w, http.StatusBadRequest, "topic_id: is required")
		return
	}

	var upd repository.TopicUpdate
	if req.Subject != nil {
		subject := sanitize.Clean(*req.Subject)
		if subject == "" {
			writeError(w, http.StatusBadRequest, "subject: is required")
			return
		}
		upd.Subject = &subject
	}
	if req.Message != nil {
		message := sanitize.Clean(*req.Message)
		upd.Message = &message
	}

	if err := s.store.UpdateTopic(r.Context(), req.TopicID, upd); err != nil {
		storageError(w, err, "Topic not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Topic updated successfully")
}

func (s *Server) deleteTopic(w http.ResponseWriter, r *http.Request) {
	topicID := stringID(r, "id")
	if topicID == "" {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	if err := s.store.DeleteTopic(r.Context(), topicID); err != nil {
		storageError(w, err, "Topic not found", "Topic was already deleted")
		return
	}
	writeMessage(w, http.StatusOK, "Topic deleted successfully")
}

func (s *Server) repliesResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if replyID := r.URL.Query().Get("id"); replyID != "" {
			s.getReply(w, r, replyID)
			return
		}
		s.listReplies(w, r)
	case http.MethodPost:
		s.createReply(w, r)
	case http.MethodPut:
		s.updateReply(w, r)
	case http.MethodDelete:
		s.deleteReply(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listReplies(w http.ResponseWriter, r *http.Request) {
	topicID := r.URL.Query().Get("topic_id")
	if topicID == "" {
		writeError(w, http.StatusBadRequest, "topic_id: is required")
		return
	}
	replies, err := s.store.ListReplies(r.Context(), topicID)
	if err != nil {
		storageError(w, err, "Topic not found", "")
		return
	}
	views := make([]replyView, len(replies))
	for i, rp := range replies {
		views[i] = newReplyView(rp)
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) getReply(w http.ResponseWriter, r *http.Request, replyID string) {
	reply, err := s.store.GetReply(r.Context(), replyID)
	if err != nil {
		storageError(w, err, "Reply not found", "")
		return
	}
	writeData(w, http.StatusOK, newReplyView(*reply))
}

func (s *Server) createReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReplyID string `json:"reply_id"`
		TopicID string `json:"topic_id"`
		Text    string `json:"text"`
		Author  string `json:"author"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.ReplyID = sanitize.Clean(req.ReplyID)
	req.TopicID = sanitize.Clean(req.TopicID)
	req.Text = sanitize.Clean(req.Text)
	req.Author = sanitize.Clean(req.Author)
	if err := validate.Required(
		validate.FieldValue{Name: "reply_id", Value: req.ReplyID},
		validate.FieldValue{Name: "topic_id", Value: req.TopicID},
		validate.FieldValue{Name: "text", Value: req.Text},
		validate.FieldValue{Name: "author", Value: req.Author},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.store.CreateReply(r.Context(), req.ReplyID, req.TopicID, req.Text, req.Author)
	if err != nil {
		storageError(w, err, "Topic not found", "Reply already exists")
		return
	}
	writeData(w, http.StatusCreated, newReplyView(*reply))
}

func (s *Server) updateReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReplyID string  `json:"reply_id"`
		Text    *string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.ReplyID = sanitize.Clean(req.ReplyID)
	if req.ReplyID == "" {
		writeError(w, http.StatusBadRequest, "reply_id: is required")
		return
	}

	var upd repository.ReplyUpdate
	if req.Text != nil {
		text := sanitize.Clean(*req.Text)
		if text == "" {
			writeError(w, http.StatusBadRequest, "text: is required")
			return
		}
		upd.Text = &text
	}

	if err := s.store.UpdateReply(r.Context(), req.ReplyID, upd); err != nil {
		storageError(w, err, "Reply not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Reply updated successfully")
}

func (s *Server) deleteReply(w http.ResponseWriter, r *http.Request) {
	replyID := stringID(r, "id")
	if replyID == "" {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	if err := s.store.DeleteReply(r.Context(), replyID); err != nil {
		storageError(w, err, "Reply not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Reply deleted successfully")
}
