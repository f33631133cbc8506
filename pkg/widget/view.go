// Package widget implements the chat widget's behavior: the session
// manager, the transcript renderer, the feedback controller and the
// submission flow. It is UI-toolkit agnostic; a View binds it to a
// concrete surface (pkg/tui for terminals).
package widget

import (
	"github.com/ramilabs/ramichat/pkg/feedback"
	"github.com/ramilabs/ramichat/pkg/i18n"
)

// Role distinguishes the two sides of the transcript.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is one transcript message. Text is raw content: views must
// escape it unless RichText marks it as trusted markup from the server.
// Entries are immutable after creation except for feedback state.
type Entry struct {
	Text     string
	Role     Role
	RichText bool
	Feedback *feedback.State

	placeholder bool
}

// Placeholder reports whether this is the transient "Thinking..." entry.
func (e *Entry) Placeholder() bool { return e.placeholder }

// View is the rendering surface the controller drives. Implementations
// must escape Entry.Text by default and render RichText entries through
// an explicit trusted-markup path only.
type View interface {
	// RenderTranscript replaces the visible transcript with the given
	// entries and scrolls to reveal the last one.
	RenderTranscript(entries []*Entry)

	// SetControlsEnabled enables or disables the query input, the submit
	// control and the client selector together.
	SetControlsEnabled(enabled bool)

	// ApplyLanguage updates every static label, placeholder and the text
	// direction.
	ApplyLanguage(bundle i18n.Bundle, dir i18n.Direction)

	// ShowAlert surfaces a blocking, dismissable message.
	ShowAlert(message string)

	// SetSessionID updates the session identifier display.
	SetSessionID(id string)
}
