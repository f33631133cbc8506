package widget_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramilabs/ramichat/pkg/api"
	"github.com/ramilabs/ramichat/pkg/config"
	"github.com/ramilabs/ramichat/pkg/feedback"
	"github.com/ramilabs/ramichat/pkg/i18n"
	"github.com/ramilabs/ramichat/pkg/widget"
)

// fakeView records every controller instruction.
type fakeView struct {
	mu           sync.Mutex
	snapshots    [][]*widget.Entry
	enabledCalls []bool
	alerts       []string
	sessionIDs   []string
	bundles      []i18n.Bundle
	directions   []i18n.Direction
	enabledCh    chan bool
}

func newFakeView() *fakeView {
	return &fakeView{enabledCh: make(chan bool, 16)}
}

func (v *fakeView) RenderTranscript(entries []*widget.Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot := make([]*widget.Entry, len(entries))
	copy(snapshot, entries)
	v.snapshots = append(v.snapshots, snapshot)
}

func (v *fakeView) SetControlsEnabled(enabled bool) {
	v.mu.Lock()
	v.enabledCalls = append(v.enabledCalls, enabled)
	v.mu.Unlock()
	v.enabledCh <- enabled
}

func (v *fakeView) ApplyLanguage(b i18n.Bundle, d i18n.Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bundles = append(v.bundles, b)
	v.directions = append(v.directions, d)
}

func (v *fakeView) ShowAlert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

func (v *fakeView) SetSessionID(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessionIDs = append(v.sessionIDs, id)
}

func (v *fakeView) waitControls(t *testing.T, want bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-v.enabledCh:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for SetControlsEnabled(%v)", want)
		}
	}
}

func (v *fakeView) sawPlaceholder() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, snap := range v.snapshots {
		for _, e := range snap {
			if e.Placeholder() {
				return true
			}
		}
	}
	return false
}

// fakeService scripts the chat collaborator.
type fakeService struct {
	mu       sync.Mutex
	requests []api.Request
	response *api.Response
	err      error
	block    chan struct{} // when non-nil, SendQuery waits on it
}

func (s *fakeService) SendQuery(ctx context.Context, req api.Request) (*api.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *fakeService) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func roster() []config.ClientConfig {
	return []config.ClientConfig{{ID: "all", Name: "All Clients"}, {ID: "C123"}}
}

func newWidget(svc widget.ChatService) (*widget.Controller, *fakeView) {
	view := newFakeView()
	ctrl := widget.New(svc, view, i18n.English, roster())
	ctrl.Start()
	return ctrl, view
}

func TestStartNewSessionRendersWelcomeOnly(t *testing.T) {
	ctrl, view := newWidget(&fakeService{})

	entries := ctrl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, widget.RoleBot, entries[0].Role)
	assert.Equal(t, i18n.English.Bundle().Welcome, entries[0].Text)
	assert.Nil(t, entries[0].Feedback)

	// Starting a session disables nothing.
	assert.Empty(t, view.enabledCalls)
	require.NotEmpty(t, view.sessionIDs)
	assert.Equal(t, ctrl.Session().ID, view.sessionIDs[len(view.sessionIDs)-1])
}

func TestSubmitWithoutClientAlertsAndSendsNothing(t *testing.T) {
	svc := &fakeService{}
	ctrl, view := newWidget(svc)

	accepted := ctrl.Submit("What is the balance?")

	assert.False(t, accepted)
	assert.Equal(t, 0, svc.requestCount())
	assert.Len(t, ctrl.Entries(), 1, "transcript must stay unchanged")
	require.Len(t, view.alerts, 1)
	assert.Equal(t, i18n.English.Bundle().SelectClientAlert, view.alerts[0])
}

func TestSubmitBlankQueryIgnored(t *testing.T) {
	svc := &fakeService{}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")

	assert.False(t, ctrl.Submit("   "))
	assert.Equal(t, 0, svc.requestCount())
	assert.Empty(t, view.alerts)
}

func TestSubmitSuccessEndToEnd(t *testing.T) {
	svc := &fakeService{response: &api.Response{Answer: "Balance: $500"}}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")

	require.True(t, ctrl.Submit("What is the balance?"))
	view.waitControls(t, true)

	entries := ctrl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, widget.RoleUser, entries[1].Role)
	assert.Equal(t, "What is the balance?", entries[1].Text)

	answer := entries[2]
	assert.Equal(t, widget.RoleBot, answer.Role)
	assert.Equal(t, "Balance: $500", answer.Text)
	assert.True(t, answer.RichText, "server answers take the trusted markup path")
	assert.NotNil(t, answer.Feedback, "answers carry the feedback cluster")
	assert.False(t, answer.Placeholder())

	// The thinking placeholder was shown while awaiting, and is gone now.
	assert.True(t, view.sawPlaceholder())
	for _, e := range entries {
		assert.False(t, e.Placeholder())
	}

	// Controls were disabled on entry and re-enabled on exit.
	require.GreaterOrEqual(t, len(view.enabledCalls), 2)
	assert.False(t, view.enabledCalls[0])
	assert.True(t, view.enabledCalls[len(view.enabledCalls)-1])

	// Wire contract.
	require.Equal(t, 1, svc.requestCount())
	req := svc.requests[0]
	assert.Equal(t, "What is the balance?", req.Query)
	assert.Equal(t, "C123", req.ClientID)
	assert.Equal(t, "en", req.Language)
	assert.Equal(t, ctrl.Session().ID, req.SessionID)
}

func TestSubmitFailureRendersErrorWithoutFeedback(t *testing.T) {
	svc := &fakeService{err: errors.New("connection refused")}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")

	require.True(t, ctrl.Submit("hello"))
	view.waitControls(t, true)

	entries := ctrl.Entries()
	require.Len(t, entries, 3)
	last := entries[2]
	assert.Equal(t, widget.RoleBot, last.Role)
	assert.Contains(t, last.Text, i18n.English.Bundle().RequestFailed)
	assert.Contains(t, last.Text, "connection refused")
	assert.Nil(t, last.Feedback)
	assert.False(t, last.RichText)
	assert.False(t, ctrl.Busy())
}

func TestSecondSubmissionWhileAwaitingIsRejected(t *testing.T) {
	svc := &fakeService{response: &api.Response{Answer: "ok"}, block: make(chan struct{})}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")

	require.True(t, ctrl.Submit("first"))
	assert.True(t, ctrl.Busy())
	assert.False(t, ctrl.Submit("second"), "exactly one request may be outstanding")

	close(svc.block)
	view.waitControls(t, true)
	assert.Equal(t, 1, svc.requestCount())
}

func TestLanguageToggleDiscardsTranscript(t *testing.T) {
	svc := &fakeService{response: &api.Response{Answer: "ok"}}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")
	require.True(t, ctrl.Submit("hello"))
	view.waitControls(t, true)
	require.Len(t, ctrl.Entries(), 3)
	oldID := ctrl.Session().ID

	ctrl.ToggleLanguage()

	entries := ctrl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, i18n.Arabic.Bundle().Welcome, entries[0].Text)
	assert.NotEqual(t, oldID, ctrl.Session().ID)

	require.NotEmpty(t, view.directions)
	assert.Equal(t, i18n.RightToLeft, view.directions[len(view.directions)-1])

	// And back.
	ctrl.ToggleLanguage()
	assert.Equal(t, i18n.English.Bundle().Welcome, ctrl.Entries()[0].Text)
}

func TestResetWhileAwaitingDropsResponse(t *testing.T) {
	svc := &fakeService{response: &api.Response{Answer: "late"}, block: make(chan struct{})}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")

	require.True(t, ctrl.Submit("hello"))
	ctrl.StartNewSession()
	close(svc.block)
	view.waitControls(t, true)

	entries := ctrl.Entries()
	require.Len(t, entries, 1, "late response must not land in the new transcript")
	assert.Equal(t, i18n.English.Bundle().Welcome, entries[0].Text)
	assert.False(t, ctrl.Busy())
}

func TestFeedbackThroughController(t *testing.T) {
	svc := &fakeService{response: &api.Response{Answer: "answer"}}
	ctrl, view := newWidget(svc)
	ctrl.SelectClient("C123")
	require.True(t, ctrl.Submit("q"))
	view.waitControls(t, true)

	answer := ctrl.Entries()[2]
	require.NotNil(t, answer.Feedback)

	ctrl.ToggleSentiment(answer, feedback.Like)
	ctrl.ToggleSentiment(answer, feedback.Dislike)
	assert.Equal(t, feedback.Dislike, answer.Feedback.Sentiment())

	ctrl.ToggleComment(answer)
	assert.True(t, answer.Feedback.CommentOpen())
	assert.False(t, ctrl.SubmitComment(answer, "  "))
	assert.True(t, ctrl.SubmitComment(answer, "nice"))
	assert.True(t, answer.Feedback.Acknowledged())

	// Feedback ops on entries without a cluster are no-ops.
	welcome := ctrl.Entries()[0]
	ctrl.ToggleSentiment(welcome, feedback.Like)
	ctrl.ToggleComment(welcome)
	assert.False(t, ctrl.SubmitComment(welcome, "x"))
}
