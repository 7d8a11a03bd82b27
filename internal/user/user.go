package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/SergeyParamoshkin/news/internal/model"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyPassword      = errors.New("refusing to set empty password")
)

// Store keeps users and their bcrypt password hashes.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, username, password string) (*model.User, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.CreatedAt.UnixNano())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return u, nil
}

const selectUser = `SELECT id, username, password_hash, is_superuser, created_at FROM users`

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u       model.User
		created int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperuser, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(0, created).UTC()
	return &u, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
}

func (s *Store) GetByName(ctx context.Context, username string) (*model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE username = ?`, username))
}

// Authenticate returns the user if the password matches. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.GetByName(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) SetSuperuser(ctx context.Context, id int64, superuser bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_superuser = ? WHERE id = ?`, superuser, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
