package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/group"
	"github.com/SergeyParamoshkin/news/internal/listing"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/metrics"
	"github.com/SergeyParamoshkin/news/internal/user"
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config
	metrics     *metrics.Metrics
	sessions    *scs.SessionManager

	users    *user.Store
	groups   *group.Store
	articles *article.Store
	authz    *authz.Service
	listing  *listing.Service
}

// NewApp wires the stores and services on top of an open database and makes
// sure the default roles exist.
func NewApp(ctx context.Context, sugar *zap.SugaredLogger, cfg config.Config, sqlDB *sql.DB, m *metrics.Metrics) (*App, error) {
	groups := group.NewStore(sqlDB)
	if err := authz.SeedRoles(ctx, groups); err != nil {
		return nil, err
	}

	az := authz.New(groups)
	articles := article.NewStore(sqlDB)

	return &App{
		sugarLogger: sugar,
		config:      cfg,
		metrics:     m,
		sessions: user.NewSessionManager(sqlDB, user.SessionOptions{
			Lifetime:     cfg.SessionLifetime,
			IdleTimeout:  cfg.SessionIdleTimeout,
			SecureCookie: cfg.SecureCookie,
		}),
		users:    user.NewStore(sqlDB),
		groups:   groups,
		articles: articles,
		authz:    az,
		listing:  listing.New(articles, az),
	}, nil
}

// Logger puts a logger tagged with the request id on the request context.
func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.sugarLogger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logctx.With(r.Context(), logger)))
	})
}
