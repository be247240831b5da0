package repository

import (
	"context"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/resource"
)

var weeksDesc = resource.Descriptor{
	Table:         "weeks",
	KeyColumn:     "week_id",
	SelectColumns: []string{"id", "week_id", "title", "start_date", "description", "links", "created_at", "updated_at"},
	SearchColumns: []string{"title", "description"},
	SortColumns:   []string{"title", "start_date", "created_at"},
	DefaultSort:   "start_date",
	DefaultOrder:  "asc",
	Children: []resource.Child{
		{Table: "week_comments", ForeignKey: "week_id"},
	},
}

type WeekUpdate struct {
	Title       *string
	StartDate   *time.Time
	Description *string
	Links       *[]string
}

func (s *Store) ListWeeks(ctx context.Context, opts resource.ListOptions) ([]model.Week, error) {
	query, args := weeksDesc.ListQuery(opts)
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]model.Week, 0)
	for rows.Next() {
		var (
			w   model.Week
			raw []byte
		)
		if err := rows.Scan(&w.ID, &w.WeekID, &w.Title, &w.StartDate, &w.Description, &raw, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		w.Links = decodeStrings(raw)
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (s *Store) GetWeek(ctx context.Context, weekID string) (*model.Week, error) {
	var (
		w   model.Week
		raw []byte
	)
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, week_id, title, start_date, description, links, created_at, updated_at
		 FROM weeks WHERE week_id = $1`,
		weekID,
	).Scan(&w.ID, &w.WeekID, &w.Title, &w.StartDate, &w.Description, &raw, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	w.Links = decodeStrings(raw)
	return &w, nil
}

func (s *Store) CreateWeek(ctx context.Context, weekID, title string, startDate time.Time, description string, links []string) (*model.Week, error) {
	if err := s.engine.EnsureUnique(ctx, "weeks", "week_id", weekID); err != nil {
		return nil, err
	}
	w := model.Week{WeekID: weekID, Title: title, StartDate: startDate, Description: description, Links: links}
	if w.Links == nil {
		w.Links = []string{}
	}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO weeks (week_id, title, start_date, description, links) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		weekID, title, startDate, description, encodeStrings(links),
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &w, nil
}

func (s *Store) UpdateWeek(ctx context.Context, weekID string, upd WeekUpdate) error {
	if err := s.engine.EnsureExists(ctx, weeksDesc, weekID); err != nil {
		return err
	}
	fields := make([]resource.Field, 0, 4)
	if upd.Title != nil {
		fields = append(fields, resource.Field{Column: "title", Value: *upd.Title})
	}
	if upd.StartDate != nil {
		fields = append(fields, resource.Field{Column: "start_date", Value: *upd.StartDate})
	}
	if upd.Description != nil {
		fields = append(fields, resource.Field{Column: "description", Value: *upd.Description})
	}
	if upd.Links != nil {
		fields = append(fields, resource.Field{Column: "links", Value: encodeStrings(*upd.Links)})
	}
	query, args, err := weeksDesc.UpdateQuery(weekID, fields, "updated_at")
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, query, args...)
	return resource.MapError(err)
}

func (s *Store) DeleteWeek(ctx context.Context, weekID string) error {
	return s.engine.DeleteCascade(ctx, weeksDesc, weekID)
}

func (s *Store) ListWeekComments(ctx context.Context, weekID string) ([]model.WeekComment, error) {
	if err := s.engine.EnsureExists(ctx, weeksDesc, weekID); err != nil {
		return nil, err
	}
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, week_id, author, text, created_at FROM week_comments
		 WHERE week_id = $1 ORDER BY created_at ASC`,
		weekID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.WeekComment, 0)
	for rows.Next() {
		var c model.WeekComment
		if err := rows.Scan(&c.ID, &c.WeekID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) CreateWeekComment(ctx context.Context, weekID, author, text string) (*model.WeekComment, error) {
	if err := s.engine.EnsureExists(ctx, weeksDesc, weekID); err != nil {
		return nil, err
	}
	c := model.WeekComment{WeekID: weekID, Author: author, Text: text}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO week_comments (week_id, author, text) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		weekID, author, text,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &c, nil
}

func (s *Store) DeleteWeekComment(ctx context.Context, id int64) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM week_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}
