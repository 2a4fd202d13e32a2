// Package dialog models modal forms declaratively and defines the
// presenter that shows them.
package dialog

import (
	"context"
	"errors"
)

// FieldType is the input kind of a form field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypePassword FieldType = "password"
)

// ClassMonospaced renders a field in a fixed-width font.
const ClassMonospaced = "glass-text-monospaced"

// ErrCancelled is returned by presenters when the user dismisses a dialog
// that requires an answer.
var ErrCancelled = errors.New("dialog cancelled")

// Field is one input of a form.
type Field struct {
	Type  FieldType `json:"type"`
	Name  string    `json:"name"`
	Label string    `json:"label,omitempty"`
	Value string    `json:"value"`

	ReadOnly                 bool   `json:"readonly,omitempty"`
	HasCopyToClipboardButton bool   `json:"hasCopyToClipboardButton,omitempty"`
	Class                    string `json:"class,omitempty"`
}

// Form is a modal dialog: a title, optional subtitle and a list of fields.
type Form struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Width    string  `json:"width,omitempty"`
	Fields   []Field `json:"fields"`

	OKButtonVisible  bool   `json:"okButtonVisible"`
	CancelButtonText string `json:"cancelButtonText,omitempty"`
}

// Field returns the named field.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Dialogs presents forms to the user. Each call blocks until the dialog is
// closed and reports its outcome as a return value.
type Dialogs interface {
	// Open shows an informational form.
	Open(ctx context.Context, form Form) error

	// OpenCephfs runs the create-CephFS dialog. The result is true when a
	// service was created.
	OpenCephfs(ctx context.Context) (bool, error)

	// OpenNfs runs the create-NFS dialog. The result is true when a service
	// was created.
	OpenNfs(ctx context.Context) (bool, error)
}
