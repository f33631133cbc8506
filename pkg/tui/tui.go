// Package tui binds the chat widget to a terminal using tview. It maps
// the widget's surface onto fixed controls: a transcript view, a query
// input, a client selector, send / new-chat / language buttons, a
// session line and an inline comment editor.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ramilabs/ramichat/pkg/config"
	"github.com/ramilabs/ramichat/pkg/feedback"
	"github.com/ramilabs/ramichat/pkg/i18n"
	"github.com/ramilabs/ramichat/pkg/widget"
)

const alertPage = "alert"

// App is the terminal application. It implements widget.View.
type App struct {
	app  *tview.Application
	ctrl *widget.Controller

	pages      *tview.Pages
	layout     *tview.Flex
	transcript *tview.TextView
	input      *tview.InputField
	clientSel  *tview.DropDown
	sendBtn    *tview.Button
	newChatBtn *tview.Button
	langBtn    *tview.Button
	statusBar  *tview.TextView
	comment    *tview.InputField

	clients []config.ClientConfig
	bundle  i18n.Bundle
	rtl     bool

	entries      []*widget.Entry
	target       int // transcript index the feedback keys act on, -1 none
	commentEntry *widget.Entry
	sessionID    string
}

// New wires the terminal surface to a fresh widget controller.
func New(cfg *config.Config, svc widget.ChatService, lang i18n.Language) *App {
	a := &App{
		app:     tview.NewApplication(),
		clients: cfg.Clients,
		target:  -1,
	}

	a.transcript = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true).
		SetScrollable(true)
	a.transcript.SetBorder(true)

	a.input = tview.NewInputField().SetFieldWidth(0)
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.submit()
		}
	})

	a.clientSel = tview.NewDropDown()
	labels := make([]string, len(cfg.Clients))
	for i, c := range cfg.Clients {
		labels[i] = c.DisplayName()
	}
	a.clientSel.SetOptions(labels, func(text string, index int) {
		if index >= 0 && index < len(a.clients) {
			a.ctrl.SelectClient(a.clients[index].ID)
		}
	})

	a.sendBtn = tview.NewButton("").SetSelectedFunc(a.submit)
	a.newChatBtn = tview.NewButton("").SetSelectedFunc(func() { a.ctrl.StartNewSession() })
	a.langBtn = tview.NewButton("").SetSelectedFunc(func() { a.ctrl.ToggleLanguage() })

	a.statusBar = tview.NewTextView().SetDynamicColors(true)

	a.comment = tview.NewInputField().SetFieldWidth(0)
	a.comment.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if a.commentEntry != nil && a.ctrl.SubmitComment(a.commentEntry, a.comment.GetText()) {
				a.comment.SetText("")
				a.app.SetFocus(a.transcript)
			}
		case tcell.KeyEscape:
			if a.commentEntry != nil {
				a.ctrl.ToggleComment(a.commentEntry)
				a.app.SetFocus(a.transcript)
			}
		}
	})

	a.transcript.SetInputCapture(a.transcriptKeys)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow)
	a.pages = tview.NewPages().AddPage("main", a.layout, true, true)
	a.rebuildLayout(false)

	a.app.SetInputCapture(a.globalKeys)

	a.ctrl = widget.New(svc, a, lang, cfg.Clients)
	a.ctrl.SetDispatch(func(f func()) { a.app.QueueUpdateDraw(f) })

	return a
}

// Run starts the session and enters the event loop.
func (a *App) Run() error {
	a.ctrl.Start()
	return a.app.SetRoot(a.pages, true).SetFocus(a.input).EnableMouse(true).Run()
}

func (a *App) submit() {
	if a.ctrl.Submit(a.input.GetText()) {
		a.input.SetText("")
	}
}

// rebuildLayout lays the main column out, with the comment editor row
// present only while a comment box is open.
func (a *App) rebuildLayout(withComment bool) {
	controls := tview.NewFlex().
		AddItem(a.clientSel, 0, 2, false).
		AddItem(a.sendBtn, 0, 1, false).
		AddItem(a.newChatBtn, 0, 1, false).
		AddItem(a.langBtn, 0, 1, false)

	a.layout.Clear()
	a.layout.AddItem(a.transcript, 0, 1, false)
	if withComment {
		a.layout.AddItem(a.comment, 1, 0, false)
	}
	a.layout.AddItem(a.input, 1, 0, true)
	a.layout.AddItem(controls, 1, 0, false)
	a.layout.AddItem(a.statusBar, 1, 0, false)
}

// globalKeys cycles focus across the fixed control set with Tab.
func (a *App) globalKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyTab {
		return event
	}
	order := []tview.Primitive{a.input, a.clientSel, a.sendBtn, a.newChatBtn, a.langBtn, a.transcript}
	if a.commentEntry != nil {
		order = append(order, a.comment)
	}
	for i, p := range order {
		if p.HasFocus() {
			a.app.SetFocus(order[(i+1)%len(order)])
			return nil
		}
	}
	a.app.SetFocus(a.input)
	return nil
}

// transcriptKeys operates the feedback cluster of the targeted message:
// l/d toggle sentiment, c toggles the comment box, j/k move the target.
func (a *App) transcriptKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	entry := a.targetEntry()
	switch event.Rune() {
	case 'l':
		a.ctrl.ToggleSentiment(entry, feedback.Like)
		return nil
	case 'd':
		a.ctrl.ToggleSentiment(entry, feedback.Dislike)
		return nil
	case 'c':
		if entry != nil && entry.Feedback != nil {
			a.ctrl.ToggleComment(entry)
			if entry.Feedback.CommentOpen() {
				a.app.SetFocus(a.comment)
			}
		}
		return nil
	case 'j':
		a.moveTarget(1)
		return nil
	case 'k':
		a.moveTarget(-1)
		return nil
	}
	return event
}

func (a *App) targetEntry() *widget.Entry {
	if a.target < 0 || a.target >= len(a.entries) {
		return nil
	}
	return a.entries[a.target]
}

// moveTarget shifts the feedback target to the next or previous message
// that carries a cluster.
func (a *App) moveTarget(step int) {
	for i := a.target + step; i >= 0 && i < len(a.entries); i += step {
		if a.entries[i].Feedback != nil {
			a.target = i
			a.RenderTranscript(a.entries)
			return
		}
	}
}

// RenderTranscript implements widget.View.
func (a *App) RenderTranscript(entries []*widget.Entry) {
	a.entries = entries

	// Keep the target valid, defaulting to the newest message with a
	// feedback cluster.
	if a.target < 0 || a.target >= len(entries) || entries[a.target].Feedback == nil {
		a.target = -1
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Feedback != nil {
				a.target = i
				break
			}
		}
	}

	// Show the comment editor only while a box is open, discarding any
	// half-typed text when the open box changes or goes away.
	open := a.openCommentEntry()
	if open != a.commentEntry {
		a.comment.SetText("")
		a.commentEntry = open
	}
	a.rebuildLayout(a.commentEntry != nil)

	a.transcript.SetText(a.transcriptText())
	a.transcript.ScrollToEnd()
}

// openCommentEntry finds the message whose comment box is open, if any.
// The widget guarantees at most one per message; the view shows one
// editor at a time.
func (a *App) openCommentEntry() *widget.Entry {
	for _, e := range a.entries {
		if e.Feedback != nil && e.Feedback.CommentOpen() && !e.Feedback.Acknowledged() {
			return e
		}
	}
	return nil
}

func (a *App) transcriptText() string {
	var b strings.Builder
	for i, e := range a.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.entryText(e, i == a.target))
	}
	return b.String()
}

func (a *App) entryText(e *widget.Entry, focused bool) string {
	var b strings.Builder
	switch {
	case e.Role == widget.RoleUser:
		b.WriteString("[green::b]› [-::-]")
		b.WriteString(tview.Escape(e.Text))
	case e.Placeholder():
		b.WriteString("[gray::i]")
		b.WriteString(tview.Escape(e.Text))
		b.WriteString("[-::-]")
	case e.RichText:
		b.WriteString(renderMarkdown(e.Text))
	default:
		b.WriteString(tview.Escape(e.Text))
	}

	if e.Feedback != nil {
		b.WriteString("\n")
		b.WriteString(a.clusterText(e.Feedback, focused))
	}
	return b.String()
}

// clusterText renders the like/dislike/comment controls of one message.
func (a *App) clusterText(s *feedback.State, focused bool) string {
	mark := func(label string, selected bool) string {
		if selected {
			return fmt.Sprintf("[green::b]%s[-::-]", label)
		}
		return fmt.Sprintf("[gray]%s[-]", label)
	}

	var b strings.Builder
	if focused {
		b.WriteString("[white]▸ [-]")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(mark("▲ "+a.bundle.Like, s.Sentiment() == feedback.Like))
	b.WriteString("  ")
	b.WriteString(mark("▼ "+a.bundle.Dislike, s.Sentiment() == feedback.Dislike))
	b.WriteString("  ")
	b.WriteString(mark("✎ "+a.bundle.Comment, s.CommentOpen()))
	if s.Acknowledged() {
		b.WriteString("  [green]")
		b.WriteString(tview.Escape(a.bundle.FeedbackThanks))
		b.WriteString("[-]")
	}
	return b.String()
}

// SetControlsEnabled implements widget.View.
func (a *App) SetControlsEnabled(enabled bool) {
	a.input.SetDisabled(!enabled)
	a.sendBtn.SetDisabled(!enabled)
	a.clientSel.SetDisabled(!enabled)
	if enabled && !a.input.HasFocus() && a.commentEntry == nil {
		a.app.SetFocus(a.input)
	}
}

// ApplyLanguage implements widget.View.
func (a *App) ApplyLanguage(bundle i18n.Bundle, dir i18n.Direction) {
	a.bundle = bundle
	a.rtl = dir == i18n.RightToLeft

	align := tview.AlignLeft
	if a.rtl {
		align = tview.AlignRight
	}
	a.transcript.SetTextAlign(align)
	a.transcript.SetTitle(" " + bundle.Title + " ")
	a.statusBar.SetTextAlign(align)

	a.input.SetPlaceholder(bundle.InputPlaceholder)
	a.clientSel.SetLabel(bundle.ClientLabel + ": ")
	a.sendBtn.SetLabel(bundle.Send)
	a.newChatBtn.SetLabel(bundle.NewChat)
	a.langBtn.SetLabel(bundle.ToggleLanguage)
	a.comment.SetPlaceholder(bundle.CommentPlaceholder)

	a.refreshStatus()
	a.transcript.SetText(a.transcriptText())
}

// ShowAlert implements widget.View.
func (a *App) ShowAlert(message string) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(alertPage)
			a.app.SetFocus(a.input)
		})
	a.pages.AddPage(alertPage, modal, true, true)
}

// SetSessionID implements widget.View.
func (a *App) SetSessionID(id string) {
	a.sessionID = id
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	if a.sessionID == "" {
		return
	}
	a.statusBar.SetText(fmt.Sprintf("[gray]%s: %s[-]", a.bundle.SessionPrefix, tview.Escape(a.sessionID)))
}
