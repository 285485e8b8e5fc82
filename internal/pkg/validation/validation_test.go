package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Kind     string  `json:"kind" validate:"omitempty,oneof=a b"`
	Nickname *string `json:"nickname" validate:"omitempty,min=2"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "A", Email: "a@x.com"}))
}

func TestStruct_FieldNamesUseJSONKeys(t *testing.T) {
	short := "x"
	err := Struct(sample{Email: "nope", Kind: "c", Nickname: &short})
	require.Error(t, err)

	verrs, ok := As(err)
	require.True(t, ok)

	byField := map[string]string{}
	for _, fe := range verrs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be one of: a b", byField["kind"])
	assert.Equal(t, "must be at least 2 characters", byField["nickname"])
}

func TestErrors_ErrorJoinsFields(t *testing.T) {
	err := Errors{{Field: "a", Message: "is required"}, {Field: "b", Message: "is invalid"}}
	assert.Equal(t, "a: is required; b: is invalid", err.Error())
}
