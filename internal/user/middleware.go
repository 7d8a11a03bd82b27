package user

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/model"
)

type ctxKey int8

const ctxKeyViewer ctxKey = iota

// LoginURL is the authentication entry point anonymous writers are sent to.
const LoginURL = "/accounts/login"

func WithViewer(ctx context.Context, viewer *model.User) context.Context {
	return context.WithValue(ctx, ctxKeyViewer, viewer)
}

// ViewerFrom returns the logged-in user, or nil for anonymous requests.
func ViewerFrom(ctx context.Context) *model.User {
	viewer, _ := ctx.Value(ctxKeyViewer).(*model.User)
	return viewer
}

// ViewerCtx middleware loads the session user onto the request context.
// It must run inside sessions.LoadAndSave.
func ViewerCtx(sessions *scs.SessionManager, store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := sessions.GetInt(ctx, sessionKeyUserID)
			if id == 0 {
				next.ServeHTTP(w, r)
				return
			}

			viewer, err := store.Get(ctx, int64(id))
			switch {
			case errors.Is(err, ErrNotFound):
				// user was deleted while logged in
				sessions.Remove(ctx, sessionKeyUserID)
			case err != nil:
				logctx.From(ctx).Errorw("load session user", "user_id", id, "error", err)
			default:
				ctx = WithViewer(ctx, viewer)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin sends the client to the login page, coming back to the
// current url afterwards.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/news/"
	}
	return next
}
