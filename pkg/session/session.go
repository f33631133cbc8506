// Package session holds the client-local conversation identity: an
// opaque ephemeral token plus the active UI language. Sessions are never
// edited in place; resets and language switches mint a new one.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramilabs/ramichat/pkg/i18n"
)

// Session identifies one client-side conversation. The server performs no
// validation of the token; it only keys history on it.
type Session struct {
	ID       string
	Language i18n.Language
}

// New mints a session with a fresh opaque token: unix-milli timestamp
// plus a short random suffix.
func New(lang i18n.Language) *Session {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return &Session{
		ID:       fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix),
		Language: lang,
	}
}
