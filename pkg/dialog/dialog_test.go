package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForm_Field(t *testing.T) {
	form := Form{
		Title: "Credentials",
		Fields: []Field{
			{Type: FieldTypeText, Name: "entity", Value: "client.fs1"},
			{Type: FieldTypePassword, Name: "key", Value: "secret"},
		},
	}

	field, ok := form.Field("key")
	assert.True(t, ok)
	assert.Equal(t, FieldTypePassword, field.Type)

	_, ok = form.Field("missing")
	assert.False(t, ok)
}
