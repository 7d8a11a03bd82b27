package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/SergeyParamoshkin/news/internal/listing"
	"github.com/SergeyParamoshkin/news/internal/model"
)

var (
	ErrNotFound        = errors.New("article not found")
	ErrUnknownCategory = errors.New("unknown category")
)

// Store persists articles and categories in sqlite. Timestamps are stored as
// unix nanoseconds so that ordering and range filters are plain integer compares.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const selectArticle = `
	SELECT a.id, a.user_id, COALESCE(u.username, ''), a.title, a.body, a.category_id, c.name, a.created_at
	FROM articles a
	JOIN categories c ON c.id = a.category_id
	LEFT JOIN users u ON u.id = a.user_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (*model.Article, error) {
	var (
		a       model.Article
		created int64
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Author, &a.Title, &a.Body, &a.CategoryID, &a.Category, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	return &a, nil
}

func (s *Store) categoryID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return id, err
}

// Create publishes article. ID, CategoryID and CreatedAt are set on success;
// the category is looked up by name.
func (s *Store) Create(ctx context.Context, article *model.Article) (int64, error) {
	categoryID, err := s.categoryID(ctx, article.Category)
	if err != nil {
		return 0, err
	}
	created := s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (user_id, title, body, category_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		article.UserID, article.Title, article.Body, categoryID, created.UnixNano())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	article.ID = id
	article.CategoryID = categoryID
	article.CreatedAt = created
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, selectArticle+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// Update replaces title, body and category. Author and creation time never change.
func (s *Store) Update(ctx context.Context, id int64, article *model.Article) (*model.Article, error) {
	categoryID, err := s.categoryID(ctx, article.Category)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET title = ?, body = ?, category_id = ? WHERE id = ?`,
		article.Title, article.Body, categoryID, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Remove deletes the article and returns it as it was.
func (s *Store) Remove(ctx context.Context, id int64) (*model.Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return a, nil
}

func where(c listing.Criteria) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if c.Query != "" {
		pattern := "%" + escapeLike(c.Query) + "%"
		clauses = append(clauses, `(a.title LIKE ? ESCAPE '\' OR a.body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if c.Category != "" {
		clauses = append(clauses, `c.name = ?`)
		args = append(args, c.Category)
	}
	if !c.From.IsZero() {
		clauses = append(clauses, `a.created_at >= ?`)
		args = append(args, nanos(c.From))
	}
	if until := c.Until(); !until.IsZero() {
		clauses = append(clauses, `a.created_at < ?`)
		args = append(args, nanos(until))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Range of instants representable as unix nanoseconds.
var (
	minNanos = time.Unix(0, math.MinInt64)
	maxNanos = time.Unix(0, math.MaxInt64)
)

// nanos converts a range bound to the stored representation, clamping bounds
// outside the representable range so they still cover every article.
func nanos(t time.Time) int64 {
	switch {
	case t.Before(minNanos):
		return math.MinInt64
	case t.After(maxNanos):
		return math.MaxInt64
	}
	return t.UnixNano()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) CountArticles(ctx context.Context, c listing.Criteria) (int, error) {
	clause, args := where(c)
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles a
		JOIN categories c ON c.id = a.category_id`+clause, args...).Scan(&n)
	return n, err
}

func (s *Store) FindArticles(ctx context.Context, c listing.Criteria, limit, offset int) ([]*model.Article, error) {
	clause, args := where(c)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, selectArticle+clause+`
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts the category if it does not exist and returns its id.
func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
			return 0, err
		}
	}
	return s.categoryID(ctx, name)
}
