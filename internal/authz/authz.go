// Package authz decides what a viewer may do with articles and manages the
// self-service "author" role.
//
// Every write operation calls Require before touching the store. A nil viewer
// is anonymous and gets ErrUnauthenticated, which the HTTP layer turns into a
// redirect to the login page rather than a hard failure.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/news/internal/model"
)

var (
	ErrUnauthenticated   = errors.New("login required")
	ErrForbidden         = errors.New("permission denied")
	ErrUnknownPermission = errors.New("unknown permission")
)

// Groups is the membership and permission store.
type Groups interface {
	IsMember(ctx context.Context, userID int64, group string) (bool, error)
	Join(ctx context.Context, group string, userID int64) error
	HasPermission(ctx context.Context, userID int64, codename string) (bool, error)
}

// Seeder creates a group with the given permissions if it does not exist yet.
type Seeder interface {
	Ensure(ctx context.Context, group string, codenames []string) error
}

type Service struct {
	groups Groups
}

func New(groups Groups) *Service {
	return &Service{groups: groups}
}

// IsAuthor reports whether viewer is a member of the author role.
func (s *Service) IsAuthor(ctx context.Context, viewer *model.User) (bool, error) {
	if !viewer.Authenticated() {
		return false, nil
	}
	ok, err := s.groups.IsMember(ctx, viewer.ID, RoleAuthor)
	if err != nil {
		return false, fmt.Errorf("check author role: %w", err)
	}
	return ok, nil
}

// UpgradeMe adds viewer to the author role. Calling it again is a no-op.
func (s *Service) UpgradeMe(ctx context.Context, viewer *model.User) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	isAuthor, err := s.IsAuthor(ctx, viewer)
	if err != nil {
		return err
	}
	if isAuthor {
		return nil
	}
	if err := s.groups.Join(ctx, RoleAuthor, viewer.ID); err != nil {
		return fmt.Errorf("join author role: %w", err)
	}
	return nil
}

// Require returns nil if viewer holds perm, ErrUnauthenticated for anonymous
// viewers and ErrForbidden otherwise. Superusers hold every permission.
func (s *Service) Require(ctx context.Context, viewer *model.User, perm Permission) error {
	if !perm.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPermission, string(perm))
	}
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	if viewer.IsSuperuser {
		return nil
	}
	ok, err := s.groups.HasPermission(ctx, viewer.ID, string(perm))
	if err != nil {
		return fmt.Errorf("check permission %s: %w", perm, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrForbidden, perm)
	}
	return nil
}

// SeedRoles makes sure every default role exists with its permissions.
func SeedRoles(ctx context.Context, seeder Seeder) error {
	for name, perms := range DefaultRoles() {
		codenames := make([]string, len(perms))
		for i, p := range perms {
			codenames[i] = string(p)
		}
		if err := seeder.Ensure(ctx, name, codenames); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
