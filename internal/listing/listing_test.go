package listing

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/model"
)

type memStore struct {
	articles []*model.Article
	finds    int
}

func (m *memStore) match(c Criteria) []*model.Article {
	var out []*model.Article
	for _, a := range m.articles {
		if c.Query != "" && !strings.Contains(strings.ToLower(a.Title+" "+a.Body), strings.ToLower(c.Query)) {
			continue
		}
		if c.Category != "" && a.Category != c.Category {
			continue
		}
		if !c.From.IsZero() && a.CreatedAt.Before(c.From) {
			continue
		}
		if until := c.Until(); !until.IsZero() && !a.CreatedAt.Before(until) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) CountArticles(_ context.Context, c Criteria) (int, error) {
	return len(m.match(c)), nil
}

func (m *memStore) FindArticles(_ context.Context, c Criteria, limit, offset int) ([]*model.Article, error) {
	m.finds++
	all := m.match(c)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type roles map[int64]bool

func (r roles) IsAuthor(_ context.Context, viewer *model.User) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return r[viewer.ID], nil
}

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fixture: ids 1..7, one day apart, id 7 newest. Odd ids are Sports.
func fixture() *memStore {
	m := &memStore{}
	for i := int64(1); i <= 7; i++ {
		category := "Politics"
		if i%2 == 1 {
			category = "Sports"
		}
		m.articles = append(m.articles, &model.Article{
			ID:        i,
			Title:     "story " + string(rune('a'+i-1)),
			Body:      "body",
			Category:  category,
			CreatedAt: day0.AddDate(0, 0, int(i)),
		})
	}
	return m
}

func ids(articles []*model.Article) []int64 {
	out := make([]int64, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(fixture(), roles{})

	want := map[int][]int64{1: {7, 6, 5}, 2: {4, 3, 2}, 3: {1}}
	for page, expected := range want {
		res, err := s.List(ctx, nil, Criteria{}, page)
		require.NoError(t, err)
		assert.Equal(t, expected, ids(res.Articles), "page %d", page)
		assert.Equal(t, 7, res.TotalItems)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, PageSize, res.Size)
		assert.Equal(t, page < 3, res.HasNext)
		assert.Equal(t, page > 1, res.HasPrevious)
	}
}

func TestListPageBeyondLastIsEmpty(t *testing.T) {
	store := fixture()
	res, err := New(store, roles{}).List(context.Background(), nil, Criteria{}, 9)
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
	assert.NotNil(t, res.Articles)
	assert.Equal(t, 9, res.Number)
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrevious)
	assert.Zero(t, store.finds)
}

func TestListLastPage(t *testing.T) {
	res, err := New(fixture(), roles{}).List(context.Background(), nil, Criteria{}, LastPage)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Number)
	assert.Equal(t, []int64{1}, ids(res.Articles))
}

func TestListEmptyCollection(t *testing.T) {
	res, err := New(&memStore{}, roles{}).List(context.Background(), nil, Criteria{}, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
	assert.Equal(t, 0, res.TotalItems)
	assert.Equal(t, 1, res.TotalPages)
	assert.False(t, res.HasNext)
}

func TestListIsNotAuthor(t *testing.T) {
	ctx := context.Background()
	s := New(fixture(), roles{2: true})

	res, err := s.List(ctx, nil, Criteria{}, 1)
	require.NoError(t, err)
	assert.True(t, res.IsNotAuthor, "anonymous")

	res, err = s.List(ctx, &model.User{ID: 1}, Criteria{}, 1)
	require.NoError(t, err)
	assert.True(t, res.IsNotAuthor)

	res, err = s.List(ctx, &model.User{ID: 2}, Criteria{}, 1)
	require.NoError(t, err)
	assert.False(t, res.IsNotAuthor)
}

type failingRoles struct{}

func (failingRoles) IsAuthor(context.Context, *model.User) (bool, error) {
	return false, errors.New("boom")
}

func TestListRoleError(t *testing.T) {
	_, err := New(fixture(), failingRoles{}).List(context.Background(), &model.User{ID: 1}, Criteria{}, 1)
	assert.Error(t, err)
}

func TestListCategoryFilter(t *testing.T) {
	ctx := context.Background()
	s := New(fixture(), roles{})
	c := Criteria{Category: "Sports"}

	first, err := s.List(ctx, nil, c, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 5, 3}, ids(first.Articles))
	assert.Equal(t, 4, first.TotalItems)
	assert.Equal(t, 2, first.TotalPages)

	second, err := s.List(ctx, nil, c, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(second.Articles))
	for _, a := range append(first.Articles, second.Articles...) {
		assert.Equal(t, "Sports", a.Category)
	}
	assert.Equal(t, c, second.Criteria)
}

func TestListDateRange(t *testing.T) {
	c := Criteria{From: day0.AddDate(0, 0, 2).Truncate(24 * time.Hour), To: day0.AddDate(0, 0, 4).Truncate(24 * time.Hour)}
	res, err := New(fixture(), roles{}).List(context.Background(), nil, c, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2}, ids(res.Articles))
}

func TestListNoMatches(t *testing.T) {
	res, err := New(fixture(), roles{}).List(context.Background(), nil, Criteria{Query: "nothing like this"}, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
	assert.Equal(t, 0, res.TotalItems)
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":     1,
		"1":    1,
		"4":    4,
		"0":    1,
		"-2":   1,
		"abc":  1,
		"last": LastPage,
		"LAST": LastPage,
		" 2 ":  2,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "%q", raw)
	}
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.Empty())

	c, err = ParseCriteria(url.Values{
		"q":        {"  match "},
		"category": {"Sports"},
		"from":     {"2024-03-02"},
		"to":       {"2024-03-04"},
		"page":     {"2"},
	})
	require.NoError(t, err)
	assert.False(t, c.Empty())
	assert.Equal(t, "match", c.Query)
	assert.Equal(t, "Sports", c.Category)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), c.From)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), c.Until())

	_, err = ParseCriteria(url.Values{"from": {"yesterday"}})
	assert.Error(t, err)

	_, err = ParseCriteria(url.Values{"from": {"2024-03-04"}, "to": {"2024-03-01"}})
	assert.Error(t, err)
}

func TestParseCriteriaWideDateRange(t *testing.T) {
	c, err := ParseCriteria(url.Values{"from": {"1600-01-01"}, "to": {"3000-01-01"}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC), c.From)
	assert.Equal(t, time.Date(3000, 1, 2, 0, 0, 0, 0, time.UTC), c.Until())
}
