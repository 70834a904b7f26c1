package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *recorder) Push(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

type panicTranslator struct{}

func (panicTranslator) Translate(models.Locale, string) (string, bool) { panic("broken catalog") }

func httpErr(status int, body string) error {
	f := &client.Failure{Kind: client.KindHTTP, Status: status}
	if body != "" {
		f.Body = &client.ErrorBody{Code: body}
	}
	return f
}

func TestResolveKey(t *testing.T) {
	cat := DefaultCatalog()

	tests := []struct {
		name   string
		err    error
		want   string
		silent bool
	}{
		{name: "unauthorized is silent", err: httpErr(401, "TOKEN_EXPIRED"), silent: true},
		{name: "nil is silent", err: nil, silent: true},
		{name: "known code wins", err: httpErr(409, "ALREADY_APPLIED"), want: "errors.code.ALREADY_APPLIED"},
		{name: "unknown code falls back to status", err: httpErr(409, "SOMETHING"), want: KeyConflict},
		{name: "403", err: httpErr(403, ""), want: KeyForbidden},
		{name: "404", err: httpErr(404, ""), want: KeyNotFound},
		{name: "422", err: httpErr(422, ""), want: KeyValidation},
		{name: "503", err: httpErr(503, ""), want: KeyServer},
		{name: "400", err: httpErr(400, ""), want: KeyUnknown},
		{name: "transport", err: &client.Failure{Kind: client.KindTransport, Err: errors.New("x")}, want: KeyNetwork},
		{name: "parse", err: &client.Failure{Kind: client.KindParse, Err: errors.New("x")}, want: KeyGeneric},
		{name: "plain error", err: errors.New("x"), want: KeyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ResolveKey(tt.err, models.LocaleEN, cat)
			if tt.silent {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestResolveKey_PanicFallsBackToGeneric(t *testing.T) {
	key, ok := ResolveKey(httpErr(409, "ALREADY_APPLIED"), models.LocaleEN, panicTranslator{})
	assert.True(t, ok)
	assert.Equal(t, KeyGeneric, key)

	text, ok := Message(httpErr(409, "ALREADY_APPLIED"), models.LocaleEN, panicTranslator{})
	assert.True(t, ok)
	assert.Equal(t, KeyGeneric, text)
}

func TestMessage_Translations(t *testing.T) {
	cat := DefaultCatalog()

	text, ok := Message(httpErr(409, "ALREADY_APPLIED"), models.LocaleRU, cat)
	require.True(t, ok)
	assert.Equal(t, "Вы уже откликнулись на эту вакансию.", text)

	text, _ = Message(httpErr(404, ""), models.LocaleEN, cat)
	assert.Equal(t, "Nothing was found.", text)

	partial := Catalog{models.LocaleEN: {KeyGeneric: "Oops"}}
	text, _ = Message(httpErr(404, ""), models.LocaleRU, partial)
	assert.Equal(t, "Oops", text)
}

func TestCatalog_FallsBackToDefaultLocale(t *testing.T) {
	cat := Catalog{models.LocaleEN: {"k": "v"}}
	text, ok := cat.Translate(models.LocaleRU, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", text)

	_, ok = cat.Translate(models.LocaleRU, "missing")
	assert.False(t, ok)
}

func TestDefaultCatalog_LanguagesHaveSameKeys(t *testing.T) {
	cat := DefaultCatalog()
	for key := range cat[models.LocaleEN] {
		_, ok := cat[models.LocaleRU][key]
		assert.Truef(t, ok, "ru is missing %s", key)
	}
	assert.Len(t, cat[models.LocaleRU], len(cat[models.LocaleEN]))
}

func TestMiddleware_PassesThroughAndObserves(t *testing.T) {
	want := httpErr(404, "VACANCY_NOT_FOUND")
	next := client.RunnerFunc(func(_ context.Context, req client.Request) (json.RawMessage, error) {
		if req.Path == "/ok" {
			return json.RawMessage(`{}`), nil
		}
		if req.Path == "/401" {
			return nil, httpErr(401, "")
		}
		return nil, want
	})

	rec := &recorder{}
	lang := models.LocaleRU
	m := NewMiddleware(next, rec, DefaultCatalog(), func() models.Locale { return lang })

	data, err := m.Run(context.Background(), client.Request{Path: "/ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	_, err = m.Run(context.Background(), client.Request{Path: "/vacancies/1"})
	assert.Same(t, want, err)

	_, err = m.Run(context.Background(), client.Request{Path: "/401"})
	assert.Equal(t, 401, client.StatusOf(err))

	require.Len(t, rec.toasts, 1)
	assert.Equal(t, Toast{Key: "errors.code.VACANCY_NOT_FOUND", Message: "Вакансия больше не существует."}, rec.toasts[0])
}

func TestMiddleware_CancelledCallIsSilent(t *testing.T) {
	next := client.RunnerFunc(func(context.Context, client.Request) (json.RawMessage, error) {
		return nil, &client.Failure{Kind: client.KindTransport, Err: context.Canceled}
	})
	rec := &recorder{}
	m := NewMiddleware(next, rec, DefaultCatalog(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Run(ctx, client.Request{Path: "/x"})
	assert.Error(t, err)
	assert.Empty(t, rec.toasts)
}

func TestPrintNotifier(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	NewPrintNotifier(&buf).Push(Toast{Key: KeyNetwork, Message: "No connection to the server."})
	assert.Equal(t, "! No connection to the server.\n", buf.String())
}
