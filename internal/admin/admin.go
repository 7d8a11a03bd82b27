// Package admin is a separate router for administrator routes: looking at
// users and managing their group membership.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/group"
	"github.com/SergeyParamoshkin/news/internal/logctx"
	"github.com/SergeyParamoshkin/news/internal/user"
	"github.com/SergeyParamoshkin/news/internal/userpayload"
)

type API struct {
	Users  *user.Store
	Groups *group.Store
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(a.AdminOnly)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, &index{Status: "admin: index"})
	})
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", a.GetUser)
		r.Post("/groups/{group}", a.JoinGroup)
		r.Delete("/groups/{group}", a.LeaveGroup)
	})

	return r
}

type index struct {
	Status string `json:"status"`
}

func (i *index) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		render.Respond(w, r, err)
	}
}

// AdminOnly middleware restricts access to superusers and moderators.
func (a *API) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := user.ViewerFrom(r.Context())
		if !viewer.Authenticated() {
			user.RedirectToLogin(w, r)
			return
		}
		if !viewer.IsSuperuser {
			ok, err := a.Groups.IsMember(r.Context(), viewer.ID, authz.RoleModerator)
			if err != nil {
				respond(w, r, errresponse.ErrInternal(err))
				return
			}
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) userPayload(w http.ResponseWriter, r *http.Request) *userpayload.UserPayload {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respond(w, r, errresponse.ErrNotFound)
		return nil
	}
	u, err := a.Users.Get(r.Context(), id)
	if errors.Is(err, user.ErrNotFound) {
		respond(w, r, errresponse.ErrNotFound)
		return nil
	}
	if err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return nil
	}
	groups, err := a.Groups.GroupsOf(r.Context(), u.ID)
	if err != nil {
		respond(w, r, errresponse.ErrInternal(err))
		return nil
	}
	return userpayload.NewUserPayloadResponse(u, groups)
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	if p := a.userPayload(w, r); p != nil {
		respond(w, r, p)
	}
}

type membershipFunc func(r *http.Request, name string, userID int64) error

func (a *API) membership(change membershipFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := a.userPayload(w, r)
		if p == nil {
			return
		}
		name := chi.URLParam(r, "group")
		err := change(r, name, p.ID)
		if errors.Is(err, group.ErrNoGroup) {
			respond(w, r, errresponse.ErrNotFound)
			return
		}
		if err != nil {
			respond(w, r, errresponse.ErrInternal(err))
			return
		}
		logctx.From(r.Context()).Infow("membership changed",
			"admin_id", user.ViewerFrom(r.Context()).ID, "user_id", p.ID, "group", name, "method", r.Method)

		if p.Groups, err = a.Groups.GroupsOf(r.Context(), p.ID); err != nil {
			respond(w, r, errresponse.ErrInternal(err))
			return
		}
		respond(w, r, p)
	}
}

// JoinGroup adds the user to the group; joining twice is harmless.
func (a *API) JoinGroup(w http.ResponseWriter, r *http.Request) {
	a.membership(func(r *http.Request, name string, userID int64) error {
		return a.Groups.Join(r.Context(), name, userID)
	})(w, r)
}

func (a *API) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	a.membership(func(r *http.Request, name string, userID int64) error {
		return a.Groups.Leave(r.Context(), name, userID)
	})(w, r)
}
