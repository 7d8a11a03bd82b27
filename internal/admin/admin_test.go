package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/db"
	"github.com/SergeyParamoshkin/news/internal/group"
	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/user"
)

type fixture struct {
	api    *API
	reader *model.User
	target *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	database, err := db.Open("sqlite3", filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	groups := group.NewStore(database)
	require.NoError(t, authz.SeedRoles(ctx, groups))
	users := user.NewStore(database)

	reader, err := users.Create(ctx, "reader", "secret123")
	require.NoError(t, err)
	target, err := users.Create(ctx, "target", "secret123")
	require.NoError(t, err)

	return &fixture{api: &API{Users: users, Groups: groups}, reader: reader, target: target}
}

func (f *fixture) serve(viewer *model.User, method, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if viewer != nil {
		r = r.WithContext(user.WithViewer(r.Context(), viewer))
	}
	w := httptest.NewRecorder()
	f.api.Router().ServeHTTP(w, r)
	return w
}

func TestAdminOnly(t *testing.T) {
	f := newFixture(t)

	w := f.serve(nil, http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, w.Code)

	w = f.serve(f.reader, http.MethodGet, "/")
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, f.api.Groups.Join(context.Background(), authz.RoleModerator, f.reader.ID))
	w = f.serve(f.reader, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.serve(&model.User{ID: 99, Username: "root", IsSuperuser: true}, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMembership(t *testing.T) {
	f := newFixture(t)
	root := &model.User{ID: 99, Username: "root", IsSuperuser: true}
	path := "/users/" + strconv.FormatInt(f.target.ID, 10)

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	w := f.serve(root, http.MethodPost, path+"/groups/author")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(w)
	assert.Equal(t, []interface{}{"author"}, body["groups"])
	assert.Equal(t, true, body["is_author"])

	w = f.serve(root, http.MethodPost, path+"/groups/author")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"author"}, decode(w)["groups"])

	w = f.serve(root, http.MethodDelete, path+"/groups/author")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(w)["groups"])

	w = f.serve(root, http.MethodPost, path+"/groups/editors")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.serve(root, http.MethodGet, "/users/4242")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
