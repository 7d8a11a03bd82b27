package userpayload

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/model"
)

func TestRenderMarksAuthor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)

	p := NewUserPayloadResponse(&model.User{ID: 1, Username: "kate", PasswordHash: "hash"}, nil)
	require.NoError(t, p.Render(httptest.NewRecorder(), r))
	assert.Equal(t, []string{}, p.Groups)
	assert.False(t, p.IsAuthor)

	p = NewUserPayloadResponse(&model.User{ID: 1, Username: "kate"}, []string{"author", "moderator"})
	require.NoError(t, p.Render(httptest.NewRecorder(), r))
	assert.True(t, p.IsAuthor)
}

func TestRenderHidesPasswordHash(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)

	require.NoError(t, render.Render(w, r, NewUserPayloadResponse(&model.User{ID: 1, Username: "kate", PasswordHash: "secret-hash"}, nil)))
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.Contains(t, w.Body.String(), `"username":"kate"`)
}

func TestCredentialsBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		want    string
	}{
		{"normalizes username", `{"username":"  Kate ","password":"secret123"}`, "", "kate"},
		{"missing username", `{"password":"secret123"}`, "username is required", ""},
		{"short password", `{"username":"kate","password":"short"}`, "password", ""},
		{"non alphanumeric", `{"username":"ka te!","password":"secret123"}`, "username", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/accounts/login", bytes.NewBufferString(tt.body))
			r.Header.Set("Content-Type", "application/json")

			c := &Credentials{}
			err := render.Bind(r, c)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Username)
		})
	}
}
