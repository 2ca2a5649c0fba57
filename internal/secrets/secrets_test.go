// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPushgateway(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Credentials
	}{
		{
			name: "reads and trims both files",
			files: map[string]string{
				PushgatewayUsernameFile: "  crawler  \n",
				PushgatewayPasswordFile: "s3cret\n",
			},
			want: Credentials{Username: "crawler", Password: "s3cret"},
		},
		{
			name:  "username only",
			files: map[string]string{PushgatewayUsernameFile: "crawler"},
			want:  Credentials{Username: "crawler"},
		},
		{
			name:  "password without username is ignored",
			files: map[string]string{PushgatewayPasswordFile: "s3cret"},
			want:  Credentials{},
		},
		{
			name:  "whitespace-only username",
			files: map[string]string{PushgatewayUsernameFile: " \n\t", PushgatewayPasswordFile: "x"},
			want:  Credentials{},
		},
		{
			name:  "unrelated files are not read",
			files: map[string]string{"other-key": "value"},
			want:  Credentials{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			assert.Equal(t, tt.want, Pushgateway(dir, nil))
		})
	}
}

func TestPushgateway_MissingDirectory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	got := Pushgateway(filepath.Join(t.TempDir(), "does-not-exist"), zap.New(core))
	assert.Equal(t, Credentials{}, got)
	assert.Zero(t, logs.Len())
}

func TestPushgateway_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PushgatewayPasswordFile, "s3cret")
	// A directory in place of the username file cannot be read.
	require.NoError(t, os.Mkdir(filepath.Join(dir, PushgatewayUsernameFile), 0o755))

	core, logs := observer.New(zapcore.WarnLevel)
	got := Pushgateway(dir, zap.New(core))
	assert.Equal(t, Credentials{}, got)
	assert.Equal(t, 1, logs.FilterMessage("skipping unreadable secret").Len())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
