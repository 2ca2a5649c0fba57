// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept outside the config file. Each
// secret is one plain-text file in a directory; its trimmed contents are
// the value.
package secrets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-crawler/internal/logging"
)

// DefaultDir is the secrets directory read by the CLI.
const DefaultDir = ".secrets"

// Files holding the Pushgateway basic-auth credentials.
const (
	PushgatewayUsernameFile = "pushgateway-username"
	PushgatewayPasswordFile = "pushgateway-password"
)

// Credentials is a basic-auth pair. A zero value means no auth.
type Credentials struct {
	Username string
	Password string
}

// Pushgateway returns the Pushgateway credentials stored in dir. Missing
// files yield empty fields; unreadable ones are logged and treated as
// missing. A password without a username is ignored.
func Pushgateway(dir string, log *zap.Logger) Credentials {
	log = logging.OrNop(log)
	c := Credentials{
		Username: read(dir, PushgatewayUsernameFile, log),
		Password: read(dir, PushgatewayPasswordFile, log),
	}
	if c.Username == "" {
		if c.Password != "" {
			log.Warn("ignoring pushgateway password without username")
		}
		return Credentials{}
	}
	return c
}

func read(dir, name string, log *zap.Logger) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	if err != nil {
		log.Warn("skipping unreadable secret", zap.String("key", name), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(string(data))
}
