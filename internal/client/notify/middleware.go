package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/fatih/color"
)

// Toast is a user-visible error notification.
type Toast struct {
	Key     string
	Message string
}

type Notifier interface {
	Push(t Toast)
}

// Middleware is a client.Runner that reports failures of the wrapped runner
// to a Notifier. Results are passed through unchanged.
type Middleware struct {
	next     client.Runner
	notifier Notifier
	tr       Translator
	locale   func() models.Locale
}

// NewMiddleware wraps next. locale is read for every failure.
func NewMiddleware(next client.Runner, notifier Notifier, tr Translator, locale func() models.Locale) *Middleware {
	if locale == nil {
		locale = func() models.Locale { return models.DefaultLocale }
	}
	return &Middleware{next: next, notifier: notifier, tr: tr, locale: locale}
}

func (m *Middleware) Run(ctx context.Context, req client.Request) (json.RawMessage, error) {
	data, err := m.next.Run(ctx, req)
	if err != nil {
		m.Observe(ctx, err)
	}
	return data, err
}

// Observe pushes a toast for err unless it should stay silent.
func (m *Middleware) Observe(ctx context.Context, err error) {
	if m.notifier == nil || ctx.Err() != nil {
		return
	}

	lang := m.locale()
	key, ok := ResolveKey(err, lang, m.tr)
	if !ok {
		return
	}
	text, _ := Message(err, lang, m.tr)

	m.notifier.Push(Toast{Key: key, Message: text})
}

// PrintNotifier writes toasts to a terminal in red.
type PrintNotifier struct {
	mu  sync.Mutex
	w   io.Writer
	clr *color.Color
}

func NewPrintNotifier(w io.Writer) *PrintNotifier {
	return &PrintNotifier{w: w, clr: color.New(color.FgRed, color.Bold)}
}

func (p *PrintNotifier) Push(t Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.clr.Fprintf(p.w, "! %s\n", t.Message)
}
