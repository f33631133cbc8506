// Package feedback models the per-message like/dislike/comment controls.
// Feedback is local-only: it is recorded to the diagnostic log and never
// transmitted or persisted.
package feedback

import (
	"strings"

	"github.com/ramilabs/ramichat/pkg/logger"
)

// Sentiment is the mutually exclusive like/dislike mark on a message.
type Sentiment string

const (
	None    Sentiment = "none"
	Like    Sentiment = "like"
	Dislike Sentiment = "dislike"
)

// State is the feedback cluster attached to one bot message. Invariant:
// at most one of like/dislike is selected at any time.
type State struct {
	sentiment    Sentiment
	commentOpen  bool
	acknowledged bool
}

// NewState returns an empty cluster: no sentiment, comment box closed.
func NewState() *State {
	return &State{sentiment: None}
}

// Sentiment returns the currently selected sentiment.
func (s *State) Sentiment() Sentiment { return s.sentiment }

// CommentOpen reports whether the comment box is visible.
func (s *State) CommentOpen() bool { return s.commentOpen }

// Acknowledged reports whether a comment was accepted and the box now
// shows the fixed acknowledgment instead of the editor.
func (s *State) Acknowledged() bool { return s.acknowledged }

// Toggle selects the given sentiment, clearing the opposite one. Toggling
// the already-selected sentiment unselects it without touching the other.
func (s *State) Toggle(mark Sentiment) {
	if mark != Like && mark != Dislike {
		return
	}
	if s.sentiment == mark {
		s.sentiment = None
		return
	}
	s.sentiment = mark
}

// ToggleComment opens a closed comment box, or closes an open one
// discarding whatever was typed. Closing resets the acknowledgment so a
// reopened box starts fresh.
func (s *State) ToggleComment() {
	if s.commentOpen {
		s.commentOpen = false
		s.acknowledged = false
		return
	}
	s.commentOpen = true
}

// SubmitComment accepts non-empty comment text, switching the box to the
// acknowledgment. Whitespace-only submissions are ignored and leave the
// box unchanged. Returns whether the comment was accepted.
func (s *State) SubmitComment(text string) bool {
	if !s.commentOpen || s.acknowledged {
		return false
	}
	if strings.TrimSpace(text) == "" {
		return false
	}
	s.acknowledged = true
	return true
}

// Record writes one feedback event to the diagnostic log. This is the
// only sink feedback ever reaches.
func Record(sessionID string, messageIndex int, event string, s *State, comment string) {
	fields := map[string]interface{}{
		"session_id": sessionID,
		"message":    messageIndex,
		"event":      event,
		"sentiment":  string(s.Sentiment()),
	}
	if comment != "" {
		fields["comment"] = comment
	}
	logger.InfoCF("feedback", "Feedback recorded", fields)
}
