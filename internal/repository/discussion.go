package repository

import (
	"context"

	"coursehub/internal/model"
	"coursehub/internal/resource"
)

// Topics and replies carry client-minted string identifiers (topic_id,
// reply_id) alongside the serial primary key; all API addressing uses the
// string identifiers.
var topicsDesc = resource.Descriptor{
	Table:         "topics",
	KeyColumn:     "topic_id",
	SelectColumns: []string{"id", "topic_id", "subject", "message", "author", "created_at"},
	SearchColumns: []string{"subject", "message", "author"},
	SortColumns:   []string{"subject", "author", "created_at"},
	DefaultSort:   "created_at",
	DefaultOrder:  "desc",
	Children: []resource.Child{
		{Table: "replies", ForeignKey: "topic_id"},
	},
}

type TopicUpdate struct {
	Subject *string
	Message *string
}

type ReplyUpdate struct {
	Text *string
}

func (s *Store) ListTopics(ctx context.Context, opts resource.ListOptions) ([]model.Topic, error) {
	query, args := topicsDesc.ListQuery(opts)
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]model.Topic, 0)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.TopicID, &t.Subject, &t.Message, &t.Author, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (s *Store) GetTopic(ctx context.Context, topicID string) (*model.Topic, error) {
	var t model.Topic
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, topic_id, subject, message, author, created_at FROM topics WHERE topic_id = $1`,
		topicID,
	).Scan(&t.ID, &t.TopicID, &t.Subject, &t.Message, &t.Author, &t.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &t, nil
}

func (s *Store) CreateTopic(ctx context.Context, topicID, subject, message, author string) (*model.Topic, error) {
	if err := s.engine.EnsureUnique(ctx, "topics", "topic_id", topicID); err != nil {
		return nil, err
	}
	t := model.Topic{TopicID: topicID, Subject: subject, Message: message, Author: author}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO topics (topic_id, subject, message, author) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		topicID, subject, message, author,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &t, nil
}

func (s *Store) UpdateTopic(ctx context.Context, topicID string, upd TopicUpdate) error {
	if err := s.engine.EnsureExists(ctx, topicsDesc, topicID); err != nil {
		return err
	}
	fields := make([]resource.Field, 0, 2)
	if upd.Subject != nil {
		fields = append(fields, resource.Field{Column: "subject", Value: *upd.Subject})
	}
	if upd.Message != nil {
		fields = append(fields, resource.Field{Column: "message", Value: *upd.Message})
	}
	query, args, err := topicsDesc.UpdateQuery(topicID, fields, "")
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, query, args...)
	return resource.MapError(err)
}

func (s *Store) DeleteTopic(ctx context.Context, topicID string) error {
	return s.engine.DeleteCascade(ctx, topicsDesc, topicID)
}

func (s *Store) ListReplies(ctx context.Context, topicID string) ([]model.Reply, error) {
	if err := s.engine.EnsureExists(ctx, topicsDesc, topicID); err != nil {
		return nil, err
	}
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, reply_id, topic_id, text, author, created_at FROM replies
		 WHERE topic_id = $1 ORDER BY created_at ASC`,
		topicID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := make([]model.Reply, 0)
	for rows.Next() {
		var r model.Reply
		if err := rows.Scan(&r.ID, &r.ReplyID, &r.TopicID, &r.Text, &r.Author, &r.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

func (s *Store) GetReply(ctx context.Context, replyID string) (*model.Reply, error) {
	var r model.Reply
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, reply_id, topic_id, text, author, created_at FROM replies WHERE reply_id = $1`,
		replyID,
	).Scan(&r.ID, &r.ReplyID, &r.TopicID, &r.Text, &r.Author, &r.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &r, nil
}

// CreateReply requires the parent topic to exist and the reply identifier to
// be unused; the first failure maps to 404, the second to 409.
func (s *Store) CreateReply(ctx context.Context, replyID, topicID, text, author string) (*model.Reply, error) {
	if err := s.engine.EnsureExists(ctx, topicsDesc, topicID); err != nil {
		return nil, err
	}
	if err := s.engine.EnsureUnique(ctx, "replies", "reply_id", replyID); err != nil {
		return nil, err
	}
	r := model.Reply{ReplyID: replyID, TopicID: topicID, Text: text, Author: author}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO replies (reply_id, topic_id, text, author) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		replyID, topicID, text, author,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &r, nil
}

func (s *Store) UpdateReply(ctx context.Context, replyID string, upd ReplyUpdate) error {
	repliesDesc := resource.Descriptor{Table: "replies", KeyColumn: "reply_id"}
	if err := s.engine.EnsureExists(ctx, repliesDesc, replyID); err != nil {
		return err
	}
	fields := make([]resource.Field, 0, 1)
	if upd.Text != nil {
		fields = append(fields, resource.Field{Column: "text", Value: *upd.Text})
	}
	query, args, err := repliesDesc.UpdateQuery(replyID, fields, "")
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, query, args...)
	return resource.MapError(err)
}

func (s *Store) DeleteReply(ctx context.Context, replyID string) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM replies WHERE reply_id = $1`, replyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}
