package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/metrics"
	"github.com/SergeyParamoshkin/news/internal/userpayload"
)

type GroupLister interface {
	GroupsOf(ctx context.Context, userID int64) ([]string, error)
}

// API serves the account endpoints and the author upgrade.
type API struct {
	Store    *Store
	Sessions *scs.SessionManager
	Groups   GroupLister
	Authz    *authz.Service
	Metrics  *metrics.Metrics
}

type loginPrompt struct {
	Status string `json:"status"`
	Next   string `json:"next"`
}

func (p *loginPrompt) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusUnauthorized)

	return nil
}

type statusResponse struct {
	Status string `json:"status"`
}

func (s *statusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// SeeOther answers a successful write with a 303 to target, v as the body.
func SeeOther(w http.ResponseWriter, r *http.Request, target string, v render.Renderer) {
	w.Header().Set("Location", target)
	render.Status(r, http.StatusSeeOther)
	if err := render.Render(w, r, v); err != nil {
		render.Respond(w, r, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		render.Respond(w, r, err)
	}
}

func (a *API) logIn(ctx context.Context, id int64) error {
	if err := a.Sessions.RenewToken(ctx); err != nil {
		return err
	}
	a.Sessions.Put(ctx, sessionKeyUserID, int(id))
	return nil
}

// SignUp creates an account and logs it in.
func (a *API) SignUp(w http.ResponseWriter, r *http.Request) {
	data := &userpayload.Credentials{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	u, err := a.Store.Create(r.Context(), data.Username, data.Password)
	if errors.Is(err, ErrDuplicateUsername) {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}
	if err != nil {
		logctx.From(r.Context()).Errorw("create user", "username", data.Username, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	if err := a.logIn(r.Context(), u.ID); err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}
	logctx.From(r.Context()).Infow("user signed up", "user_id", u.ID, "username", u.Username)

	SeeOther(w, r, "/news/", userpayload.NewUserPayloadResponse(u, nil))
}

// LoginForm tells the client to post credentials to the same url.
func (a *API) LoginForm(w http.ResponseWriter, r *http.Request) {
	respond(w, r, &loginPrompt{
		Status: "Login required.",
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	data := &userpayload.Credentials{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	u, err := a.Store.Authenticate(r.Context(), data.Username, data.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		logctx.From(r.Context()).Infow("failed login", "username", data.Username)
		respond(w, r, errresponse.ErrInvalidRequest(err))
		return
	}
	if err != nil {
		logctx.From(r.Context()).Errorw("authenticate", "username", data.Username, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	if err := a.logIn(r.Context(), u.ID); err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	groups, err := a.Groups.GroupsOf(r.Context(), u.ID)
	if err != nil {
		logctx.From(r.Context()).Warnw("list groups", "user_id", u.ID, "error", err)
	}

	SeeOther(w, r, safeNext(r.URL.Query().Get("next")), userpayload.NewUserPayloadResponse(u, groups))
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Destroy(r.Context()); err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	SeeOther(w, r, "/news/", &statusResponse{Status: "Logged out."})
}

// Me returns the viewer with their groups.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFrom(r.Context())
	if !viewer.Authenticated() {
		RedirectToLogin(w, r)
		return
	}

	groups, err := a.Groups.GroupsOf(r.Context(), viewer.ID)
	if err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return
	}

	respond(w, r, userpayload.NewUserPayloadResponse(viewer, groups))
}

// Upgrade adds the viewer to the author role and goes back to the listing.
func (a *API) Upgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := ViewerFrom(ctx)

	err := a.Authz.UpgradeMe(ctx, viewer)
	if errors.Is(err, authz.ErrUnauthenticated) {
		RedirectToLogin(w, r)
		return
	}
	if err != nil {
		logctx.From(ctx).Errorw("upgrade to author", "user_id", viewer.ID, "error", err)
		respond(w, r, errresponse.ErrInternal(err))
		return
	}
	a.Metrics.RoleUpgrades.Add(ctx, 1)
	logctx.From(ctx).Infow("upgraded to author", "user_id", viewer.ID)

	groups, err := a.Groups.GroupsOf(ctx, viewer.ID)
	if err != nil {
		logctx.From(ctx).Warnw("list groups", "user_id", viewer.ID, "error", err)
	}

	SeeOther(w, r, "/news/", userpayload.NewUserPayloadResponse(viewer, groups))
}
