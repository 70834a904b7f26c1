package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
	"github.com/dmitrijs2005/jobboard/internal/client/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Req Request
	Amb Ambient
}

// fakeExecutor answers with handler and records every call.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   []call
	handler func(ctx context.Context, req Request, amb Ambient) (json.RawMessage, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, req Request, amb Ambient) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Req: req, Amb: amb})
	f.mu.Unlock()
	return f.handler(ctx, req, amb)
}

func (f *fakeExecutor) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeExecutor) countPath(path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Req.Path == path {
			n++
		}
	}
	return n
}

type fakeSessions struct {
	mu         sync.Mutex
	persisted  []session.Partial
	clears     int
	persistErr error
}

func (f *fakeSessions) Persist(_ context.Context, p session.Partial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persisted = append(f.persisted, p)
	return f.persistErr
}

func (f *fakeSessions) ClearCredentials(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

type fakeNavigator struct {
	ready  bool
	resets atomic.Int32
}

func (f *fakeNavigator) Ready() bool   { return f.ready }
func (f *fakeNavigator) ResetToLogin() { f.resets.Add(1) }

func unauthorized() error {
	return httpFailure(http.StatusUnauthorized, []byte(`{"message":"token expired"}`))
}

func respond(body string) (json.RawMessage, error) {
	return json.RawMessage(body), nil
}

type fixture struct {
	exec     *fakeExecutor
	auth     *state.Store
	sessions *fakeSessions
	nav      *fakeNavigator
	p        *Pipeline
}

func newFixture(t *testing.T, creds models.Credentials, handler func(context.Context, Request, Ambient) (json.RawMessage, error), opts ...Option) *fixture {
	t.Helper()

	auth := state.NewStore(models.LocaleEN)
	auth.SetCredentials(creds)
	auth.SetUser(&models.User{ID: "u1"})

	f := &fixture{
		exec:     &fakeExecutor{handler: handler},
		auth:     auth,
		sessions: &fakeSessions{},
		nav:      &fakeNavigator{ready: true},
	}
	f.p = NewPipeline(f.exec, f.auth, f.sessions, f.nav, nil, opts...)
	return f
}

var initial = models.Credentials{AccessToken: "A", RefreshToken: "R", FingerprintHash: "FP"}

func TestRun_SuccessPassesThrough(t *testing.T) {
	f := newFixture(t, initial, func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return respond(`{"data":[1]}`)
	})

	data, err := f.p.Run(context.Background(), Request{Path: "/vacancies"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[1]}`, string(data))

	calls := f.exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, Ambient{AccessToken: "A", FingerprintHash: "FP", Language: models.LocaleEN}, calls[0].Amb)
}

func TestRun_NonUnauthorizedFailuresAreNotRefreshed(t *testing.T) {
	failures := []error{
		httpFailure(http.StatusForbidden, nil),
		httpFailure(http.StatusInternalServerError, nil),
		transportFailure(errors.New("connection refused")),
		parseFailure(errors.New("bad json")),
	}

	for _, want := range failures {
		f := newFixture(t, initial, func(context.Context, Request, Ambient) (json.RawMessage, error) {
			return nil, want
		})

		_, err := f.p.Run(context.Background(), Request{Path: "/x"})
		assert.Same(t, want, err)
		assert.Len(t, f.exec.Calls(), 1)
		assert.Equal(t, "A", f.auth.Snapshot().AccessToken)
		assert.Zero(t, f.nav.resets.Load())
	}
}

func TestRun_SkipRefreshReturnsUnauthorizedAsIs(t *testing.T) {
	f := newFixture(t, initial, func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return nil, httpFailure(http.StatusUnauthorized, []byte(`{"error":{"code":"INVALID_CREDENTIALS"}}`))
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/auth/login", Method: http.MethodPost, SkipRefresh: true})
	require.True(t, IsUnauthorized(err))

	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", fail.Code())

	assert.Zero(t, f.exec.countPath("/auth/refresh"))
	assert.Len(t, f.exec.Calls(), 1)
	assert.Zero(t, f.sessions.clears)
	assert.Zero(t, f.nav.resets.Load())
	assert.Equal(t, "R", f.auth.Snapshot().RefreshToken)
	assert.True(t, f.auth.Snapshot().IsAuthenticated())
}

func TestRun_RefreshAndRetry(t *testing.T) {
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		switch {
		case req.Path == "/auth/refresh":
			return respond(`{"accessToken":"A2","refreshToken":"R2","fingerprintHash":"FP2"}`)
		case amb.AccessToken == "A":
			return nil, unauthorized()
		default:
			return respond(`{"ok":true}`)
		}
	})

	data, err := f.p.Run(context.Background(), Request{Path: "/applications", Method: http.MethodGet})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	calls := f.exec.Calls()
	require.Len(t, calls, 3)

	refresh := calls[1]
	assert.Equal(t, "/auth/refresh", refresh.Req.Path)
	assert.Equal(t, http.MethodPost, refresh.Req.Method)
	assert.Equal(t, refreshRequest{RefreshToken: "R"}, refresh.Req.Body)
	assert.Equal(t, "A", refresh.Amb.AccessToken)

	retry := calls[2]
	assert.Equal(t, calls[0].Req, retry.Req)
	assert.Equal(t, Ambient{AccessToken: "A2", FingerprintHash: "FP2", Language: models.LocaleEN}, retry.Amb)

	st := f.auth.Snapshot()
	assert.Equal(t, "A2", st.AccessToken)
	assert.Equal(t, "R2", st.RefreshToken)
	assert.Equal(t, "FP2", st.FingerprintHash)

	require.Len(t, f.sessions.persisted, 1)
	assert.Equal(t, session.CredentialsPartial(models.Credentials{AccessToken: "A2", RefreshToken: "R2", FingerprintHash: "FP2"}), f.sessions.persisted[0])
	assert.Zero(t, f.sessions.clears)
	assert.Zero(t, f.nav.resets.Load())
}

func TestRun_RefreshPayloadUnderDataEnvelope(t *testing.T) {
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return respond(`{"data":{"accessToken":"A2","refreshToken":"R2"}}`)
		}
		if amb.AccessToken == "A" {
			return nil, unauthorized()
		}
		return respond(`{}`)
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)

	st := f.auth.Snapshot()
	assert.Equal(t, "A2", st.AccessToken)
	assert.Equal(t, "FP", st.FingerprintHash, "missing fingerprint keeps the previous one")
	assert.Nil(t, f.sessions.persisted[0].FingerprintHash)
}

func TestRun_RetryUnauthorizedIsNotRefreshedAgain(t *testing.T) {
	f := newFixture(t, initial, func(_ context.Context, req Request, _ Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return respond(`{"accessToken":"A2","refreshToken":"R2"}`)
		}
		return nil, unauthorized()
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, f.exec.countPath("/auth/refresh"))
	assert.Equal(t, 2, f.exec.countPath("/x"))
	assert.Equal(t, "A2", f.auth.Snapshot().AccessToken, "retry 401 does not sign out")
	assert.Zero(t, f.nav.resets.Load())
}

func TestRun_RetryResultIsReturnedVerbatim(t *testing.T) {
	want := httpFailure(http.StatusNotFound, []byte(`{"error":{"code":"VACANCY_NOT_FOUND"}}`))
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return respond(`{"accessToken":"A2","refreshToken":"R2"}`)
		}
		if amb.AccessToken == "A" {
			return nil, unauthorized()
		}
		return nil, want
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/vacancies/9"})
	assert.Same(t, want, err)
}

func TestRun_NoRefreshTokenSignsOut(t *testing.T) {
	original := unauthorized()
	f := newFixture(t, models.Credentials{AccessToken: "A"}, func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return nil, original
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	assert.Same(t, original, err)
	assert.Len(t, f.exec.Calls(), 1, "no refresh without a refresh token")

	st := f.auth.Snapshot()
	assert.Empty(t, st.AccessToken)
	assert.Nil(t, st.User)
	assert.Equal(t, 1, f.sessions.clears)
	assert.EqualValues(t, 1, f.nav.resets.Load())
}

func TestRun_RefreshFailuresSignOutWithOriginalError(t *testing.T) {
	tests := []struct {
		name    string
		refresh func() (json.RawMessage, error)
	}{
		{"unauthorized", func() (json.RawMessage, error) { return nil, httpFailure(401, []byte(`{"code":"REFRESH_EXPIRED"}`)) }},
		{"server error", func() (json.RawMessage, error) { return nil, httpFailure(500, nil) }},
		{"transport", func() (json.RawMessage, error) { return nil, transportFailure(errors.New("timeout")) }},
		{"parse", func() (json.RawMessage, error) { return nil, parseFailure(errors.New("bad json")) }},
		{"missing refresh token", func() (json.RawMessage, error) { return respond(`{"accessToken":"A2"}`) }},
		{"empty access token", func() (json.RawMessage, error) { return respond(`{"accessToken":"","refreshToken":"R2"}`) }},
		{"numeric token", func() (json.RawMessage, error) { return respond(`{"accessToken":1,"refreshToken":"R2"}`) }},
		{"fingerprint wrong type", func() (json.RawMessage, error) {
			return respond(`{"accessToken":"A2","refreshToken":"R2","fingerprintHash":42}`)
		}},
		{"empty body", func() (json.RawMessage, error) { return nil, nil }},
		{"array", func() (json.RawMessage, error) { return respond(`[]`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := unauthorized()
			f := newFixture(t, initial, func(_ context.Context, req Request, _ Ambient) (json.RawMessage, error) {
				if req.Path == "/auth/refresh" {
					return tt.refresh()
				}
				return nil, original
			})

			_, err := f.p.Run(context.Background(), Request{Path: "/x"})
			assert.Same(t, original, err)
			assert.Equal(t, 1, f.exec.countPath("/x"), "original request is not retried")

			st := f.auth.Snapshot()
			assert.Empty(t, st.AccessToken)
			assert.Empty(t, st.RefreshToken)
			assert.Empty(t, st.FingerprintHash)
			assert.Nil(t, st.User)
			assert.Equal(t, models.LocaleEN, st.Language)
			assert.Equal(t, 1, f.sessions.clears)
			assert.Empty(t, f.sessions.persisted)
			assert.EqualValues(t, 1, f.nav.resets.Load())
		})
	}
}

func TestRun_NullFingerprintIsAbsent(t *testing.T) {
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return respond(`{"accessToken":"A2","refreshToken":"R2","fingerprintHash":null}`)
		}
		if amb.AccessToken == "A" {
			return nil, unauthorized()
		}
		return respond(`{}`)
	})

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "FP", f.auth.Snapshot().FingerprintHash)
}

func TestRun_NavigatorNotReadyIsSkipped(t *testing.T) {
	f := newFixture(t, models.Credentials{AccessToken: "A"}, func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return nil, unauthorized()
	})
	f.nav.ready = false

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	assert.True(t, IsUnauthorized(err))
	assert.Zero(t, f.nav.resets.Load())
	assert.Empty(t, f.auth.Snapshot().AccessToken)
}

func TestRun_NilCollaborators(t *testing.T) {
	auth := state.NewStore(models.LocaleRU)
	exec := &fakeExecutor{handler: func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return nil, unauthorized()
	}}
	p := NewPipeline(exec, auth, nil, nil, nil)

	assert.NotPanics(t, func() {
		_, err := p.Run(context.Background(), Request{Path: "/x"})
		assert.True(t, IsUnauthorized(err))
	})
	assert.Equal(t, models.LocaleRU, exec.Calls()[0].Amb.Language)
}

func TestRun_PersistFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return respond(`{"accessToken":"A2","refreshToken":"R2"}`)
		}
		if amb.AccessToken == "A" {
			return nil, unauthorized()
		}
		return respond(`{"ok":1}`)
	})
	f.sessions.persistErr = errors.New("disk full")

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "A2", f.auth.Snapshot().AccessToken)
}

func TestRun_CancelledCallerDoesNotSignOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	f := newFixture(t, initial, func(_ context.Context, req Request, _ Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			return nil, transportFailure(context.Canceled)
		}
		cancel()
		return nil, unauthorized()
	})

	_, err := f.p.Run(ctx, Request{Path: "/x"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "A", f.auth.Snapshot().AccessToken)
	assert.Zero(t, f.sessions.clears)
	assert.Zero(t, f.nav.resets.Load())
}

func TestRun_RefreshAbortedByCallerDoesNotSignOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	f := newFixture(t, initial, func(_ context.Context, req Request, _ Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			cancel()
			return nil, transportFailure(context.Canceled)
		}
		return nil, unauthorized()
	})

	_, err := f.p.Run(ctx, Request{Path: "/x"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, f.exec.countPath("/auth/refresh"))
	assert.Equal(t, "R", f.auth.Snapshot().RefreshToken)
	assert.Zero(t, f.nav.resets.Load())
}

func TestRun_AmbientIsReadAtCallTime(t *testing.T) {
	f := newFixture(t, initial, func(context.Context, Request, Ambient) (json.RawMessage, error) {
		return respond(`{}`)
	})

	f.auth.SetLanguage(models.LocaleRU)
	f.auth.SetCredentials(models.Credentials{AccessToken: "B", RefreshToken: "R"})

	_, err := f.p.Run(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, Ambient{AccessToken: "B", FingerprintHash: "FP", Language: models.LocaleRU}, f.exec.Calls()[0].Amb)
}

func concurrentUnauthorized(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	var refreshes atomic.Int32
	f := newFixture(t, initial, func(_ context.Context, req Request, amb Ambient) (json.RawMessage, error) {
		if req.Path == "/auth/refresh" {
			refreshes.Add(1)
			time.Sleep(100 * time.Millisecond)
			return respond(`{"accessToken":"A2","refreshToken":"R2"}`)
		}
		if amb.AccessToken == "A" {
			return nil, unauthorized()
		}
		return respond(`{}`)
	}, opts...)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.p.Run(context.Background(), Request{Path: "/x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	return f
}

func TestRun_ConcurrentUnauthorizedRefreshIndependently(t *testing.T) {
	f := concurrentUnauthorized(t)
	assert.Equal(t, 2, f.exec.countPath("/auth/refresh"))
}

func TestRun_RefreshCoalescing(t *testing.T) {
	f := concurrentUnauthorized(t, WithRefreshCoalescing())
	assert.Equal(t, 1, f.exec.countPath("/auth/refresh"))
	assert.Equal(t, "A2", f.auth.Snapshot().AccessToken)
}
