// Package group stores groups, their permission codenames and user membership.
package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNoGroup = errors.New("group not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ensure creates the group if needed and grants it the given codenames.
// Codenames it already holds are kept.
func (s *Store) Ensure(ctx context.Context, name string, codenames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO grp (name) VALUES (?)`, name); err != nil {
		tx.Rollback()
		return err
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM grp WHERE name = ?`, name).Scan(&id); err != nil {
		tx.Rollback()
		return err
	}

	for _, codename := range codenames {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO grp_permission (grp, codename) VALUES (?, ?)`, id, codename); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) id(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM grp WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNoGroup, name)
	}
	return id, err
}

// Join adds the user to the group. Joining twice is harmless.
func (s *Store) Join(ctx context.Context, name string, userID int64) error {
	id, err := s.id(ctx, name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR IGNORE INTO membership (grp, usr) VALUES (?, ?)`, id, userID)
	return err
}

func (s *Store) Leave(ctx context.Context, name string, userID int64) error {
	id, err := s.id(ctx, name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM membership WHERE grp = ? AND usr = ?`, id, userID)
	return err
}

func (s *Store) IsMember(ctx context.Context, userID int64, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM membership
		JOIN grp ON grp.id = membership.grp
		WHERE membership.usr = ? AND grp.name = ?`, userID, name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasPermission reports whether any group of the user grants codename.
func (s *Store) HasPermission(ctx context.Context, userID int64, codename string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM membership
		JOIN grp_permission ON grp_permission.grp = membership.grp
		WHERE membership.usr = ? AND grp_permission.codename = ?`, userID, codename).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GroupsOf returns the names of the user's groups, sorted.
func (s *Store) GroupsOf(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT grp.name FROM grp
		JOIN membership ON membership.grp = grp.id
		WHERE membership.usr = ?
		ORDER BY grp.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
