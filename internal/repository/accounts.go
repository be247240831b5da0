package repository

import (
	"context"

	"coursehub/internal/model"
	"coursehub/internal/resource"
)

// Admin rows are invisible to the account management API; only regular
// accounts are listed, fetched or deleted through it.
var accountsDesc = resource.Descriptor{
	Table:         "accounts",
	KeyColumn:     "id",
	SelectColumns: []string{"id", "name", "email", "is_admin", "created_at"},
	SearchColumns: []string{"name", "email"},
	SortColumns:   []string{"name", "id", "email", "created_at"},
	DefaultSort:   "name",
	DefaultOrder:  "asc",
	BaseFilter:    "is_admin = FALSE",
}

type AccountUpdate struct {
	Name  *string
	Email *string
}

func (s *Store) ListAccounts(ctx context.Context, opts resource.ListOptions) ([]model.Account, error) {
	query, args := accountsDesc.ListQuery(opts)
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.IsAdmin, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	var a model.Account
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, name, email, is_admin, created_at FROM accounts WHERE id = $1 AND is_admin = FALSE`,
		id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.IsAdmin, &a.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &a, nil
}

// GetAccountByEmail returns the full row including the password hash, for
// credential checks. Admin rows are included here so admins can log in.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, name, email, password, is_admin, created_at FROM accounts WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.IsAdmin, &a.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &a, nil
}

// GetAccountPassword reads the stored hash for a credential check. Unlike
// the management reads, this includes admin rows so admins can change their
// own password.
func (s *Store) GetAccountPassword(ctx context.Context, id int64) (string, error) {
	var hash string
	err := s.db.Pool.QueryRow(ctx,
		`SELECT password FROM accounts WHERE id = $1`, id,
	).Scan(&hash)
	if err != nil {
		return "", resource.MapError(err)
	}
	return hash, nil
}

func (s *Store) CreateAccount(ctx context.Context, name, email, passwordHash string) (*model.Account, error) {
	if err := s.engine.EnsureUnique(ctx, "accounts", "email", email); err != nil {
		return nil, err
	}
	a := model.Account{Name: name, Email: email}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO accounts (name, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`,
		name, email, passwordHash,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, resource.MapError(err)
	}
	return &a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id int64, upd AccountUpdate) error {
	if err := s.engine.EnsureExists(ctx, accountsDesc, id); err != nil {
		return err
	}
	fields := make([]resource.Field, 0, 2)
	if upd.Name != nil {
		fields = append(fields, resource.Field{Column: "name", Value: *upd.Name})
	}
	if upd.Email != nil {
		if err := s.engine.EnsureUniqueExcept(ctx, "accounts", "email", *upd.Email, "id", id); err != nil {
			return err
		}
		fields = append(fields, resource.Field{Column: "email", Value: *upd.Email})
	}
	query, args, err := accountsDesc.UpdateQuery(id, fields, "")
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, query, args...)
	return resource.MapError(err)
}

func (s *Store) SetAccountPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE accounts SET password = $1 WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	return s.engine.DeleteCascade(ctx, accountsDesc, id)
}
