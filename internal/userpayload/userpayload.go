package userpayload

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/validate"
)

// UserPayload is the response payload for a user together with their roles.
type UserPayload struct {
	*model.User
	Groups   []string `json:"groups"`
	IsAuthor bool     `json:"is_author"`
}

func NewUserPayloadResponse(user *model.User, groups []string) *UserPayload {
	return &UserPayload{User: user, Groups: groups}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	if u.Groups == nil {
		u.Groups = []string{}
	}
	u.IsAuthor = false
	for _, g := range u.Groups {
		if g == authz.RoleAuthor {
			u.IsAuthor = true
		}
	}

	return nil
}

// Credentials is the request payload for sign-up and login.
type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Bind on Credentials will run after the unmarshalling is complete.
func (c *Credentials) Bind(r *http.Request) error {
	c.Username = strings.ToLower(strings.TrimSpace(c.Username))

	return validate.Struct(c)
}
