package termui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarist-labs/glass/pkg/dialog"
	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/aquarist-labs/glass/pkg/store/memory"
)

func credentialsForm() dialog.Form {
	return dialog.Form{
		Title: "Credentials",
		Width: "40%",
		Fields: []dialog.Field{
			{Type: dialog.FieldTypeText, Name: "entity", Label: "Entity", Value: "client.fs1", ReadOnly: true},
			{Type: dialog.FieldTypePassword, Name: "key", Label: "Key", Value: "AQSECRET==", ReadOnly: true},
		},
		CancelButtonText: "Close",
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Name", "Type"}, [][]string{{"fs1", "CephFS"}, {"share", "NFS"}})

	for _, want := range []string{"Name", "Type", "fs1", "CephFS", "share", "NFS", "╭"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderForm_MasksPasswords(t *testing.T) {
	out := RenderForm(credentialsForm(), false)

	assert.Contains(t, out, "Credentials")
	assert.NotContains(t, out, "(copy)")
	assert.Contains(t, out, "client.fs1")
	assert.Contains(t, out, passwordMask)
	assert.NotContains(t, out, "AQSECRET==")
	assert.Contains(t, out, "[ Close ]")
	assert.NotContains(t, out, "[ OK ]")

	revealed := RenderForm(credentialsForm(), true)
	assert.Contains(t, revealed, "AQSECRET==")
}

func TestRenderForm_DoesNotWrapLongValues(t *testing.T) {
	cmdline := "mount -t ceph -o secret=AQBzbWVrZXkAAAAAEAAAAHNlY3JldHNlY3JldDEyMw==,name=fs1 10.0.0.5:/ <DIRNAME>"
	form := dialog.Form{
		Title:  "Mount command",
		Width:  "10%",
		Fields: []dialog.Field{{Type: dialog.FieldTypeText, Name: "cmdline", Value: cmdline, HasCopyToClipboardButton: true}},
	}

	out := RenderForm(form, false)
	assert.Contains(t, out, cmdline)
	assert.Contains(t, out, "(copy)")
}

func TestFormWidth(t *testing.T) {
	assert.Equal(t, 60, formWidth("60%", 100))
	assert.Equal(t, 40, formWidth(" 40 ", 100))
	assert.Equal(t, 0, formWidth("", 100))
	assert.Equal(t, 0, formWidth("wide", 100))
	assert.Equal(t, 0, formWidth("x%", 100))
}

func TestDialogs_Open(t *testing.T) {
	var out bytes.Buffer
	d := NewDialogs(strings.NewReader(""), &out, nil, false)

	require.NoError(t, d.Open(context.Background(), credentialsForm()))
	assert.Contains(t, out.String(), "client.fs1")
}

func TestDialogs_OpenCephfs(t *testing.T) {
	ctx := context.Background()
	dir := services.NewDirectory(memory.NewMemoryStore(), nil)

	var out bytes.Buffer
	d := NewDialogs(strings.NewReader("fs1\n10GiB\n2\n"), &out, dir, false)

	created, err := d.OpenCephfs(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, out.String(), "Created CephFS service fs1 (10 GiB)")

	desc, err := dir.Get(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, 2, desc.Replicas)
}

func TestDialogs_OpenNfsDefaultsAndCancel(t *testing.T) {
	ctx := context.Background()
	dir := services.NewDirectory(memory.NewMemoryStore(), nil)

	d := NewDialogs(strings.NewReader("share\n1GiB\n\n"), &bytes.Buffer{}, dir, false)
	created, err := d.OpenNfs(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	desc, err := dir.Get(ctx, "share")
	require.NoError(t, err)
	assert.Equal(t, 1, desc.Replicas)

	d = NewDialogs(strings.NewReader("\n"), &bytes.Buffer{}, dir, false)
	created, err = d.OpenNfs(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestDialogs_InvalidInput(t *testing.T) {
	dir := services.NewDirectory(memory.NewMemoryStore(), nil)

	d := NewDialogs(strings.NewReader("fs1\nhuge\n"), &bytes.Buffer{}, dir, false)
	_, err := d.OpenCephfs(context.Background())
	assert.ErrorIs(t, err, services.ErrInvalidRequest)

	d = NewDialogs(strings.NewReader("fs1\n1GiB\nthree\n"), &bytes.Buffer{}, dir, false)
	_, err = d.OpenCephfs(context.Background())
	assert.ErrorIs(t, err, services.ErrInvalidRequest)
}
