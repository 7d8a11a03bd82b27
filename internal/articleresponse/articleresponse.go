package articleresponse

import (
	"net/http"

	"gitlab.com/golang-commonmark/markdown"

	"github.com/SergeyParamoshkin/news/internal/listing"
	"github.com/SergeyParamoshkin/news/internal/model"
)

var markdownParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// ArticleResponse is the response payload for the Article data model.
//
// Render is called top-down, like a http handler middleware chain.
type ArticleResponse struct {
	*model.Article

	// body rendered from markdown, raw HTML in the source is escaped
	BodyHTML string `json:"body_html"`
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rd.BodyHTML = markdownParser.RenderToString([]byte(rd.Body))

	return nil
}

func NewArticleListResponse(articles []*model.Article) []*ArticleResponse {
	list := make([]*ArticleResponse, 0, len(articles))
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

// NewsResponse is one page of the newest-first listing.
type NewsResponse struct {
	News        []*ArticleResponse `json:"news"`
	Page        listing.Page       `json:"page"`
	IsNotAuthor bool               `json:"is_not_author"`
}

func NewNewsResponse(res *listing.Result) *NewsResponse {
	return &NewsResponse{
		News:        NewArticleListResponse(res.Articles),
		Page:        res.Page,
		IsNotAuthor: res.IsNotAuthor,
	}
}

func (n *NewsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return renderAll(w, r, n.News)
}

// FilterResponse echoes the search criteria the way they were submitted.
// Active is false when no criterion narrows the collection.
type FilterResponse struct {
	Query    string `json:"q"`
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
	Active   bool   `json:"active"`
}

func newFilterResponse(c listing.Criteria) FilterResponse {
	f := FilterResponse{Query: c.Query, Category: c.Category, Active: !c.Empty()}
	if !c.From.IsZero() {
		f.From = c.From.Format("2006-01-02")
	}
	if !c.To.IsZero() {
		f.To = c.To.Format("2006-01-02")
	}
	return f
}

// SearchResponse is one page of a filtered listing.
type SearchResponse struct {
	Search      []*ArticleResponse `json:"search"`
	Filter      FilterResponse     `json:"filter"`
	Page        listing.Page       `json:"page"`
	IsNotAuthor bool               `json:"is_not_author"`
}

func NewSearchResponse(res *listing.Result) *SearchResponse {
	return &SearchResponse{
		Search:      NewArticleListResponse(res.Articles),
		Filter:      newFilterResponse(res.Criteria),
		Page:        res.Page,
		IsNotAuthor: res.IsNotAuthor,
	}
}

func (s *SearchResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return renderAll(w, r, s.Search)
}

// renderAll renders list items; render only walks struct fields, not slices.
func renderAll(w http.ResponseWriter, r *http.Request, list []*ArticleResponse) error {
	for _, item := range list {
		if err := item.Render(w, r); err != nil {
			return err
		}
	}

	return nil
}

// FormResponse describes the article form: the categories to choose from and,
// when editing, the current values.
type FormResponse struct {
	Article    *model.Article   `json:"article,omitempty"`
	Categories []model.Category `json:"categories"`
}

func (f *FormResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if f.Categories == nil {
		f.Categories = []model.Category{}
	}

	return nil
}

type CategoryListResponse struct {
	Categories []model.Category `json:"categories"`
}

func (c *CategoryListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
