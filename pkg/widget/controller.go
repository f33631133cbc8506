package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramilabs/ramichat/pkg/api"
	"github.com/ramilabs/ramichat/pkg/config"
	"github.com/ramilabs/ramichat/pkg/feedback"
	"github.com/ramilabs/ramichat/pkg/i18n"
	"github.com/ramilabs/ramichat/pkg/logger"
	"github.com/ramilabs/ramichat/pkg/session"
)

// ChatService is the single outbound collaborator: one POST per call.
type ChatService interface {
	SendQuery(ctx context.Context, request api.Request) (*api.Response, error)
}

// Controller owns the widget state and drives a View. All methods must be
// called from the UI event loop; the one asynchronous boundary is the
// network call, whose completion is marshalled back through dispatch.
type Controller struct {
	svc      ChatService
	view     View
	dispatch func(func())

	sess           *session.Session
	entries        []*Entry
	clients        []config.ClientConfig
	selectedClient string
	busy           bool
}

// New builds a controller. The dispatch function defaults to running
// callbacks inline; UI bindings replace it with their event-loop
// marshaller via SetDispatch.
func New(svc ChatService, view View, lang i18n.Language, clients []config.ClientConfig) *Controller {
	return &Controller{
		svc:      svc,
		view:     view,
		dispatch: func(f func()) { f() },
		sess:     session.New(lang),
		clients:  clients,
	}
}

// SetDispatch installs the function used to marshal network-call
// completions onto the UI event loop.
func (c *Controller) SetDispatch(d func(func())) {
	c.dispatch = d
}

// Session returns the active session.
func (c *Controller) Session() *session.Session { return c.sess }

// Bundle returns the string set for the active language.
func (c *Controller) Bundle() i18n.Bundle { return c.sess.Language.Bundle() }

// Clients returns the selectable client roster.
func (c *Controller) Clients() []config.ClientConfig { return c.clients }

// SelectedClient returns the active client id, empty when none selected.
func (c *Controller) SelectedClient() string { return c.selectedClient }

// SelectClient sets the active client id.
func (c *Controller) SelectClient(id string) {
	c.selectedClient = id
}

// Entries returns the transcript in render order.
func (c *Controller) Entries() []*Entry { return c.entries }

// Busy reports whether a submission is awaiting its response.
func (c *Controller) Busy() bool { return c.busy }

// Start performs the initial language application and session start.
func (c *Controller) Start() {
	c.view.ApplyLanguage(c.Bundle(), c.sess.Language.Direction())
	c.StartNewSession()
}

// StartNewSession discards the transcript, mints a fresh session id and
// renders the localized welcome message. Nothing is disabled.
func (c *Controller) StartNewSession() {
	c.sess = session.New(c.sess.Language)
	c.entries = nil
	c.appendEntry(c.Bundle().Welcome, RoleBot, false)
	c.view.SetSessionID(c.sess.ID)
	logger.InfoCF("widget", "Session started", map[string]interface{}{
		"session_id": c.sess.ID,
		"language":   string(c.sess.Language),
	})
}

// SetLanguage switches the UI language and unconditionally starts a new
// session; the prior transcript is discarded.
func (c *Controller) SetLanguage(lang i18n.Language) {
	c.sess = &session.Session{ID: c.sess.ID, Language: lang}
	c.view.ApplyLanguage(c.Bundle(), lang.Direction())
	c.StartNewSession()
}

// ToggleLanguage flips between the two supported languages.
func (c *Controller) ToggleLanguage() {
	if c.sess.Language == i18n.English {
		c.SetLanguage(i18n.Arabic)
		return
	}
	c.SetLanguage(i18n.English)
}

// Submit runs the idle → awaiting-response transition. It reports whether
// the query was accepted; a missing client selection raises the localized
// alert and leaves the transcript untouched.
func (c *Controller) Submit(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" || c.busy {
		return false
	}
	if c.selectedClient == "" {
		c.view.ShowAlert(c.Bundle().SelectClientAlert)
		return false
	}

	c.busy = true
	c.view.SetControlsEnabled(false)
	c.appendEntry(query, RoleUser, false)
	thinking := &Entry{Text: c.Bundle().Thinking, Role: RoleBot, placeholder: true}
	c.entries = append(c.entries, thinking)
	c.view.RenderTranscript(c.entries)

	request := api.Request{
		Query:     query,
		SessionID: c.sess.ID,
		ClientID:  c.selectedClient,
		Language:  string(c.sess.Language),
	}
	bundle := c.Bundle()

	logger.InfoCF("widget", "Query submitted", map[string]interface{}{
		"session_id": c.sess.ID,
		"client_id":  c.selectedClient,
	})

	go func() {
		resp, err := c.svc.SendQuery(context.Background(), request)
		c.dispatch(func() { c.finish(thinking, bundle, resp, err) })
	}()
	return true
}

// finish runs the awaiting-response → idle transition. It fires on every
// outcome and always re-enables the controls.
func (c *Controller) finish(placeholder *Entry, bundle i18n.Bundle, resp *api.Response, err error) {
	stale := !c.removeEntry(placeholder)

	switch {
	case stale:
		// The session was reset while the request was in flight; the
		// response has no transcript to land in.
		logger.WarnCF("widget", "Dropping response for a reset session", nil)
	case err != nil:
		c.entries = append(c.entries, &Entry{
			Text: fmt.Sprintf("%s (%s)", bundle.RequestFailed, err),
			Role: RoleBot,
		})
	default:
		c.entries = append(c.entries, &Entry{
			Text:     resp.Answer,
			Role:     RoleBot,
			RichText: true,
			Feedback: feedback.NewState(),
		})
	}

	c.busy = false
	c.view.SetControlsEnabled(true)
	c.view.RenderTranscript(c.entries)
}

// appendEntry adds a transcript entry and re-renders.
func (c *Controller) appendEntry(text string, role Role, withFeedback bool) *Entry {
	e := &Entry{Text: text, Role: role}
	if withFeedback {
		e.Feedback = feedback.NewState()
	}
	c.entries = append(c.entries, e)
	c.view.RenderTranscript(c.entries)
	return e
}

// removeEntry deletes an entry from the transcript, reporting whether it
// was still present.
func (c *Controller) removeEntry(target *Entry) bool {
	for i, e := range c.entries {
		if e == target {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// entryIndex returns the transcript position of an entry, -1 if gone.
func (c *Controller) entryIndex(target *Entry) int {
	for i, e := range c.entries {
		if e == target {
			return i
		}
	}
	return -1
}

// ToggleSentiment flips the like/dislike mark on a feedback-enabled entry
// and records the result locally.
func (c *Controller) ToggleSentiment(e *Entry, mark feedback.Sentiment) {
	if e == nil || e.Feedback == nil {
		return
	}
	e.Feedback.Toggle(mark)
	feedback.Record(c.sess.ID, c.entryIndex(e), "sentiment", e.Feedback, "")
	c.view.RenderTranscript(c.entries)
}

// ToggleComment opens or closes the comment box on a feedback-enabled
// entry; closing discards whatever was typed.
func (c *Controller) ToggleComment(e *Entry) {
	if e == nil || e.Feedback == nil {
		return
	}
	e.Feedback.ToggleComment()
	c.view.RenderTranscript(c.entries)
}

// SubmitComment hands comment text to the feedback state; accepted text
// is recorded to the diagnostic log and acknowledged in place. It reports
// whether the comment was accepted.
func (c *Controller) SubmitComment(e *Entry, text string) bool {
	if e == nil || e.Feedback == nil {
		return false
	}
	if !e.Feedback.SubmitComment(text) {
		return false
	}
	feedback.Record(c.sess.ID, c.entryIndex(e), "comment", e.Feedback, text)
	c.view.RenderTranscript(c.entries)
	return true
}
