package repository

import (
	"context"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/resource"
)

var assignmentsDesc = resource.Descriptor{
	Table:         "assignments",
	KeyColumn:     "id",
	SelectColumns: []string{"id", "title", "description", "due_date", "files", "created_at", "updated_at"},
	SearchColumns: []string{"title", "description"},
	SortColumns:   []string{"title", "due_date", "created_at"},
	DefaultSort:   "created_at",
	DefaultOrder:  "asc",
	Children: []resource.Child{
		{Table: "assignment_comments", ForeignKey: "assignment_id"},
	},
}

type AssignmentUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Files       *[]string
}

func (s *Store) ListAssignments(ctx context.Context, opts resource.ListOptions) ([]model.Assignment, error) {
	query, args := assignmentsDesc.ListQuery(opts)
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]model.Assignment, 0)
	for rows.Next() {
		var (
			a   model.Assignment
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &raw, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Files = decodeStrings(raw)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) GetAssignment(ctx context.Context, id int64) (*model.Assignment, error) {
	var (
		a   model.Assignment
		raw []byte
	)
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, title, description, due_date, files, created_at, updated_at FROM assignments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &raw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	a.Files = decodeStrings(raw)
	return &a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, title, description string, dueDate time.Time, files []string) (*model.Assignment, error) {
	a := model.Assignment{Title: title, Description: description, DueDate: dueDate, Files: files}
	if a.Files == nil {
		a.Files = []string{}
	}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO assignments (title, description, due_date, files) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		title, description, dueDate, encodeStrings(files),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &a, nil
}

func (s *Store) UpdateAssignment(ctx context.Context, id int64, upd AssignmentUpdate) error {
	if err := s.engine.EnsureExists(ctx, assignmentsDesc, id); err != nil {
		return err
	}
	fields := make([]resource.Field, 0, 4)
	if upd.Title != nil {
		fields = append(fields, resource.Field{Column: "title", Value: *upd.Title})
	}
	if upd.Description != nil {
		fields = append(fields, resource.Field{Column: "description", Value: *upd.Description})
	}
	if upd.DueDate != nil {
		fields = append(fields, resource.Field{Column: "due_date", Value: *upd.DueDate})
	}
	if upd.Files != nil {
		fields = append(fields, resource.Field{Column: "files", Value: encodeStrings(*upd.Files)})
	}
	query, args, err := assignmentsDesc.UpdateQuery(id, fields, "updated_at")
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, query, args...)
	return resource.MapError(err)
}

func (s *Store) DeleteAssignment(ctx context.Context, id int64) error {
	return s.engine.DeleteCascade(ctx, assignmentsDesc, id)
}

func (s *Store) ListAssignmentComments(ctx context.Context, assignmentID int64) ([]model.AssignmentComment, error) {
	if err := s.engine.EnsureExists(ctx, assignmentsDesc, assignmentID); err != nil {
		return nil, err
	}
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, assignment_id, author, text, created_at FROM assignment_comments
		 WHERE assignment_id = $1 ORDER BY created_at ASC`,
		assignmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.AssignmentComment, 0)
	for rows.Next() {
		var c model.AssignmentComment
		if err := rows.Scan(&c.ID, &c.AssignmentID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) CreateAssignmentComment(ctx context.Context, assignmentID int64, author, text string) (*model.AssignmentComment, error) {
	if err := s.engine.EnsureExists(ctx, assignmentsDesc, assignmentID); err != nil {
		return nil, err
	}
	c := model.AssignmentComment{AssignmentID: assignmentID, Author: author, Text: text}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO assignment_comments (assignment_id, author, text) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		assignmentID, author, text,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &c, nil
}

func (s *Store) DeleteAssignmentComment(ctx context.Context, id int64) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM assignment_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}
