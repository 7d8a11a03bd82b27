package articlerequest

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/validate"
)

// ArticleRequest is the request payload for creating and updating an Article.
// The author, id and creation time always come from the server.
type ArticleRequest struct {
	Title    string `json:"title" validate:"required,max=128"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category" validate:"required,max=64"`

	ProtectedID string `json:"id"` // override 'id' json to have more control
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	a.ProtectedID = "" // unset the protected ID
	a.Title = strings.TrimSpace(a.Title)
	a.Category = strings.TrimSpace(a.Category)

	return validate.Struct(a)
}

// Article returns the model for the payload.
func (a *ArticleRequest) Article() *model.Article {
	return &model.Article{
		Title:    a.Title,
		Body:     a.Body,
		Category: a.Category,
	}
}
