package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/admin"
	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/user"
)

func (a *App) routes() chi.Router {
	articles := &article.API{
		Store:                   a.articles,
		Listing:                 a.listing,
		Authz:                   a.authz,
		Metrics:                 a.metrics,
		RequireDeletePermission: a.config.RequireDeletePermission,
	}
	accounts := &user.API{
		Store:    a.users,
		Sessions: a.sessions,
		Groups:   a.groups,
		Authz:    a.authz,
		Metrics:  a.metrics,
	}
	adm := &admin.API{
		Users:  a.users,
		Groups: a.groups,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.CountRequests)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(a.sessions.LoadAndSave)
	r.Use(user.ViewerCtx(a.sessions, a.users))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, article.ListURL, http.StatusFound)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			logctx.From(r.Context()).Errorw(err.Error())
		}
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/", articles.ListArticles)         // GET /news/?page=2
		r.Get("/search", articles.SearchArticles) // GET /news/search?category=Sports
		r.Get("/create", articles.CreateForm)
		r.Post("/create", articles.CreateArticle)

		r.Route("/{articleID:[0-9]+}", func(r chi.Router) {
			r.With(articles.ArticleCtx).Get("/", articles.GetArticle) // GET /news/123
			r.Put("/", articles.UpdateArticle)                        // PUT /news/123
			r.Delete("/", articles.DeleteArticle)                     // DELETE /news/123
			r.Get("/edit", articles.UpdateForm)
			r.Post("/edit", articles.UpdateArticle)
			r.Get("/delete", articles.DeleteForm)
			r.Post("/delete", articles.DeleteArticle)
		})
	})

	r.Get("/categories", articles.ListCategories)
	r.Post("/upgrade", accounts.Upgrade)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/signup", accounts.SignUp)
		r.Get("/login", accounts.LoginForm)
		r.Post("/login", accounts.Login)
		r.Post("/logout", accounts.Logout)
		r.Get("/me", accounts.Me)
	})

	r.Mount("/admin", adm.Router())

	return r
}
