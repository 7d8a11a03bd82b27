package errresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/logctx"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	AppCode    int64  `json:"code,omitempty"`  // application-specific error code
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrForbidden(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Forbidden.",
		ErrorText:      err.Error(),
	}
}

// ErrInternal hides the cause from the client; it is still available on Err for logging.
func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}

// Respond replaces render.Respond. Errors handed to it directly, such as a
// payload that failed to render, are logged and never shown to the client.
func Respond(w http.ResponseWriter, r *http.Request, v interface{}) {
	if err, ok := v.(error); ok {
		// We set a default error status response code if one hasn't been set.
		if _, ok := r.Context().Value(render.StatusCtxKey).(int); !ok {
			render.Status(r, http.StatusUnprocessableEntity)
		}

		logctx.From(r.Context()).Errorw("render error", "error", err)

		render.DefaultResponder(w, r, render.M{"status": "error"})

		return
	}

	render.DefaultResponder(w, r, v)
}
