package articleresponse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/listing"
	"github.com/SergeyParamoshkin/news/internal/model"
)

func TestArticleResponseRendersMarkdown(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/news/1", nil)
	resp := NewArticleResponse(&model.Article{ID: 1, Title: "t", Body: "**bold** <script>x</script>"})

	require.NoError(t, render.Render(w, r, resp))
	assert.Contains(t, resp.BodyHTML, "<strong>bold</strong>")
	assert.NotContains(t, resp.BodyHTML, "<script>")
}

func TestEmptySearchPage(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/news/search", nil)
	res := &listing.Result{
		Page:        listing.Page{Number: 1, Size: listing.PageSize, TotalPages: 1, Articles: []*model.Article{}},
		Criteria:    listing.Criteria{Category: "Sports", From: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		IsNotAuthor: true,
	}

	require.NoError(t, render.Render(w, r, NewSearchResponse(res)))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["search"])
	assert.Equal(t, true, body["is_not_author"])
	filter := body["filter"].(map[string]interface{})
	assert.Equal(t, "Sports", filter["category"])
	assert.Equal(t, "2024-01-02", filter["from"])
	assert.Equal(t, "", filter["to"])
	assert.Equal(t, true, filter["active"])
	page := body["page"].(map[string]interface{})
	assert.Equal(t, float64(3), page["size"])
}

func TestFilterInactiveWithoutCriteria(t *testing.T) {
	res := &listing.Result{Page: listing.Page{Number: 1, Size: listing.PageSize, TotalPages: 1}}

	resp := NewSearchResponse(res)
	assert.False(t, resp.Filter.Active)
	assert.Empty(t, resp.Search)
}
