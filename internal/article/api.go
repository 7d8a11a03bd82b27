package article

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SergeyParamoshkin/news/internal/articlerequest"
	"github.com/SergeyParamoshkin/news/internal/articleresponse"
	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/listing"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/metrics"
	"github.com/SergeyParamoshkin/news/internal/user"
)

// ListURL is where successful writes redirect to.
const ListURL = "/news/"

// API serves the article pages. Every write handler checks its permission
// first, before even looking the article up.
type API struct {
	Store   *Store
	Listing *listing.Service
	Authz   *authz.Service
	Metrics *metrics.Metrics

	// RequireDeletePermission gates deletion on news.delete_article.
	RequireDeletePermission bool
}

func respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		render.Respond(w, r, err)
	}
}

// authorize reports whether the viewer holds perm. Otherwise it has already
// answered: anonymous viewers are sent to the login page, others get a 403.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, perm authz.Permission) bool {
	ctx := r.Context()
	viewer := user.ViewerFrom(ctx)

	err := a.Authz.Require(ctx, viewer, perm)
	switch {
	case err == nil:
		return true
	case errors.Is(err, authz.ErrUnauthenticated):
		user.RedirectToLogin(w, r)
	case errors.Is(err, authz.ErrForbidden):
		a.Metrics.PermissionDenied.Add(ctx, 1, attribute.String("permission", string(perm)))
		logctx.From(ctx).Infow("permission denied", "user_id", viewer.ID, "permission", string(perm))
		respond(w, r, errresponse.ErrForbidden(err))
	default:
		logctx.From(ctx).Errorw("check permission", "permission", string(perm), "error", err)
		respond(w, r, errresponse.ErrInternal(err))
	}
	return false
}

func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := listing.ParsePage(r.URL.Query().Get("page"))

	res, err := a.Listing.List(ctx, user.ViewerFrom(ctx), listing.Criteria{}, page)
	if err != nil {
		logctx.From(ctx).Errorw("list articles", "page", page, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	if err := render.Render(w, r, articleresponse.NewNewsResponse(res)); err != nil {
		respond(w, r, errresponse.ErrRender(err))
	}
}

// SearchArticles lists the articles matching the q, category, from and to
// query parameters.
func (a *API) SearchArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	criteria, err := listing.ParseCriteria(query)
	if err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}
	page := listing.ParsePage(query.Get("page"))

	res, err := a.Listing.List(ctx, user.ViewerFrom(ctx), criteria, page)
	if err != nil {
		logctx.From(ctx).Errorw("search articles", "page", page, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	if err := render.Render(w, r, articleresponse.NewSearchResponse(res)); err != nil {
		respond(w, r, errresponse.ErrRender(err))
	}
}

// GetArticle returns the Article loaded by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article := FromContext(r.Context())

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		respond(w, r, errresponse.ErrRender(err))
	}
}

func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Store.Categories(r.Context())
	if err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	respond(w, r, &articleresponse.CategoryListResponse{Categories: categories})
}

func (a *API) form(w http.ResponseWriter, r *http.Request, resp *articleresponse.FormResponse) {
	categories, err := a.Store.Categories(r.Context())
	if err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}
	resp.Categories = categories

	respond(w, r, resp)
}

// CreateForm describes the empty article form.
func (a *API) CreateForm(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r, authz.AddArticle) {
		return
	}

	a.form(w, r, &articleresponse.FormResponse{})
}

// CreateArticle publishes the posted Article and redirects to the listing.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r, authz.AddArticle) {
		return
	}
	ctx := r.Context()

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	article := data.Article()
	article.UserID = user.ViewerFrom(ctx).ID
	_, err := a.Store.Create(ctx, article)
	if errors.Is(err, ErrUnknownCategory) {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}
	if err != nil {
		logctx.From(ctx).Errorw("create article", "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	a.Metrics.ArticlesCreated.Add(ctx, 1, attribute.String("category", article.Category))
	logctx.From(ctx).Infow("article created", "article_id", article.ID, "user_id", article.UserID)

	user.SeeOther(w, r, ListURL, articleresponse.NewArticleResponse(article))
}

// UpdateForm describes the article form filled with the current values.
func (a *API) UpdateForm(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r, authz.ChangeArticle) {
		return
	}
	article := a.load(w, r)
	if article == nil {
		return
	}

	a.form(w, r, &articleresponse.FormResponse{Article: article})
}

// UpdateArticle replaces an existing Article's title, body and category.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r, authz.ChangeArticle) {
		return
	}
	ctx := r.Context()

	article := a.load(w, r)
	if article == nil {
		return
	}

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	updated, err := a.Store.Update(ctx, article.ID, data.Article())
	switch {
	case errors.Is(err, ErrUnknownCategory):
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	case errors.Is(err, ErrNotFound):
		respond(w, r, errresponse.ErrNotFound)
		return
	case err != nil:
		logctx.From(ctx).Errorw("update article", "article_id", article.ID, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	a.Metrics.ArticlesUpdated.Add(ctx, 1)
	logctx.From(ctx).Infow("article updated", "article_id", updated.ID, "user_id", user.ViewerFrom(ctx).ID)

	user.SeeOther(w, r, ListURL, articleresponse.NewArticleResponse(updated))
}

func (a *API) authorizeDelete(w http.ResponseWriter, r *http.Request) bool {
	if !a.RequireDeletePermission {
		return true
	}
	return a.authorize(w, r, authz.DeleteArticle)
}

// DeleteForm returns the article to confirm its deletion.
func (a *API) DeleteForm(w http.ResponseWriter, r *http.Request) {
	if !a.authorizeDelete(w, r) {
		return
	}
	article := a.load(w, r)
	if article == nil {
		return
	}

	respond(w, r, articleresponse.NewArticleResponse(article))
}

// DeleteArticle removes an existing Article and redirects to the listing.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !a.authorizeDelete(w, r) {
		return
	}
	ctx := r.Context()

	article := a.load(w, r)
	if article == nil {
		return
	}

	removed, err := a.Store.Remove(ctx, article.ID)
	if errors.Is(err, ErrNotFound) {
		respond(w, r, errresponse.ErrNotFound)
		return
	}
	if err != nil {
		logctx.From(ctx).Errorw("delete article", "article_id", article.ID, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	a.Metrics.ArticlesDeleted.Add(ctx, 1)
	fields := []interface{}{"article_id", removed.ID}
	if viewer := user.ViewerFrom(ctx); viewer != nil {
		fields = append(fields, "user_id", viewer.ID)
	}
	logctx.From(ctx).Infow("article deleted", fields...)

	user.SeeOther(w, r, ListURL, articleresponse.NewArticleResponse(removed))
}
