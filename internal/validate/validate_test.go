package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Title string `validate:"required,max=5"`
	Name  string `validate:"required,min=3,alphanum"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(payload{Title: "hi", Name: "kate"}))

	err := Struct(payload{Title: "", Name: "k!"})
	if assert.Error(t, err) {
		assert.Equal(t, "title is required; name must be at least 3 characters", err.Error())
	}

	err = Struct(payload{Title: "too long", Name: "kate"})
	if assert.Error(t, err) {
		assert.Equal(t, "title must be at most 5 characters", err.Error())
	}
}
