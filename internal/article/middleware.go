package article

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/model"
)

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// FromContext returns the article loaded by ArticleCtx.
func FromContext(ctx context.Context) *model.Article {
	article, _ := ctx.Value(ctxKeyArticle).(*model.Article)
	return article
}

// load fetches the article named by the articleID url parameter. It writes a
// 404 (or 500) and returns nil if there is none.
func (a *API) load(w http.ResponseWriter, r *http.Request) *model.Article {
	id, err := strconv.ParseInt(chi.URLParam(r, "articleID"), 10, 64)
	if err != nil {
		respond(w, r, errresponse.ErrNotFound)
		return nil
	}

	article, err := a.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respond(w, r, errresponse.ErrNotFound)
		return nil
	}
	if err != nil {
		logctx.From(r.Context()).Errorw("get article", "article_id", id, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return nil
	}
	return article
}

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		article := a.load(w, r)
		if article == nil {
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
