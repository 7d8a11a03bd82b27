package errresponse

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
)

func TestRespondHidesErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/news/", nil)

	Respond(w, r, errors.New("json: unsupported value"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())
}

func TestRespondKeepsStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/news/", nil)
	render.Status(r, http.StatusInternalServerError)

	Respond(w, r, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRespondRendersPayloads(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/news/", nil)

	Respond(w, r, render.M{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
