// Package listing produces the paginated, newest-first article listings and
// annotates them with whether the viewer may become an author.
package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// PageSize is the number of articles per page.
const PageSize = 3

// LastPage asks for the last non-empty page.
const LastPage = -1

// Store returns articles matching criteria ordered by creation time, newest first.
type Store interface {
	CountArticles(ctx context.Context, c Criteria) (int, error)
	FindArticles(ctx context.Context, c Criteria, limit, offset int) ([]*model.Article, error)
}

type RoleChecker interface {
	IsAuthor(ctx context.Context, viewer *model.User) (bool, error)
}

type Page struct {
	Number      int              `json:"number"`
	Size        int              `json:"size"`
	TotalItems  int              `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	Articles    []*model.Article `json:"-"`
}

type Result struct {
	Page
	Criteria    Criteria
	IsNotAuthor bool
}

type Service struct {
	store Store
	roles RoleChecker
}

func New(store Store, roles RoleChecker) *Service {
	return &Service{store: store, roles: roles}
}

// ParsePage reads a page number; "last" selects LastPage and anything
// unparsable or below 1 selects the first page.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "last") {
		return LastPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// List returns page number of the articles matching c. A page past the end is
// empty, not an error.
func (s *Service) List(ctx context.Context, viewer *model.User, c Criteria, number int) (*Result, error) {
	total, err := s.store.CountArticles(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	pages := totalPages(total)
	if number == LastPage {
		number = pages
	}
	if number < 1 {
		number = 1
	}

	articles := []*model.Article{}
	if number <= pages {
		found, err := s.store.FindArticles(ctx, c, PageSize, (number-1)*PageSize)
		if err != nil {
			return nil, fmt.Errorf("find articles: %w", err)
		}
		articles = append(articles, found...)
	}

	isAuthor, err := s.roles.IsAuthor(ctx, viewer)
	if err != nil {
		return nil, err
	}

	return &Result{
		Page: Page{
			Number:      number,
			Size:        PageSize,
			TotalItems:  total,
			TotalPages:  pages,
			HasNext:     number < pages,
			HasPrevious: number > 1,
			Articles:    articles,
		},
		Criteria:    c,
		IsNotAuthor: !isAuthor,
	}, nil
}

func totalPages(total int) int {
	pages := total / PageSize
	if total%PageSize > 0 {
		pages++
	}
	if pages == 0 {
		// an empty collection still has one (empty) page
		pages = 1
	}
	return pages
}
