package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
	"github.com/dmitrijs2005/jobboard/internal/client/state"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"golang.org/x/sync/singleflight"
)

// AuthState is the part of the Auth State the pipeline reads and mutates.
type AuthState interface {
	Snapshot() state.State
	SetCredentials(c models.Credentials)
	ClearAuth()
}

// SessionPersister mirrors credential changes into durable storage.
type SessionPersister interface {
	Persist(ctx context.Context, p session.Partial) error
	ClearCredentials(ctx context.Context) error
}

// Navigator resets the UI to the login screen after a forced logout.
type Navigator interface {
	Ready() bool
	ResetToLogin()
}

// Pipeline is the Runner every domain service goes through. On a 401 it
// exchanges the refresh token for a new pair and retries the original
// request once; when that is impossible it signs the user out.
type Pipeline struct {
	exec     Executor
	auth     AuthState
	sessions SessionPersister
	nav      Navigator
	log      logging.Logger

	// refreshGroup is nil unless WithRefreshCoalescing is set.
	refreshGroup *singleflight.Group
}

type Option func(*Pipeline)

// WithRefreshCoalescing makes concurrent 401s that hold the same refresh
// token share one refresh call.
func WithRefreshCoalescing() Option {
	return func(p *Pipeline) {
		p.refreshGroup = &singleflight.Group{}
	}
}

// NewPipeline wires the pipeline. sessions and nav may be nil.
func NewPipeline(exec Executor, auth AuthState, sessions SessionPersister, nav Navigator, log logging.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	p := &Pipeline{exec: exec, auth: auth, sessions: sessions, nav: nav, log: log}
	for _, o := range opts {
		o(p)
	}
	return p
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Run executes req with the current credentials. Every outcome is returned
// as a value; a 401 from a failed refresh is reported as the original 401.
func (p *Pipeline) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	data, err := p.exec.Execute(ctx, req, ambientOf(p.auth.Snapshot()))
	if !IsUnauthorized(err) || req.SkipRefresh {
		return data, err
	}

	log := p.log.With("path", req.Path)

	if ctx.Err() != nil {
		return nil, err
	}

	st := p.auth.Snapshot()
	if st.RefreshToken == "" {
		log.Info(ctx, "unauthorized and no refresh token, signing out")
		p.forceLogout(ctx)
		return nil, err
	}

	log.Debug(ctx, "unauthorized, refreshing credentials")

	creds, refreshErr := p.refresh(ctx, st)
	if refreshErr != nil {
		if ctx.Err() != nil {
			log.Debug(ctx, "refresh aborted by caller", "error", refreshErr)
			return nil, err
		}
		log.Warn(ctx, "refresh failed, signing out", "error", refreshErr)
		p.forceLogout(ctx)
		return nil, err
	}

	p.auth.SetCredentials(creds)
	p.persist(ctx, creds)

	log.Debug(ctx, "credentials refreshed, retrying request")

	return p.exec.Execute(ctx, req, ambientOf(p.auth.Snapshot()))
}

func (p *Pipeline) refresh(ctx context.Context, st state.State) (models.Credentials, error) {
	if p.refreshGroup == nil {
		return p.doRefresh(ctx, st)
	}

	// the shared call outlives any single caller's cancellation
	v, err, shared := p.refreshGroup.Do(st.RefreshToken, func() (any, error) {
		return p.doRefresh(context.WithoutCancel(ctx), st)
	})
	if shared {
		p.log.Debug(ctx, "refresh result shared with a concurrent request")
	}
	if err != nil {
		return models.Credentials{}, err
	}
	return v.(models.Credentials), nil
}

func (p *Pipeline) doRefresh(ctx context.Context, st state.State) (models.Credentials, error) {
	req := Request{
		Path:   common.RefreshPath,
		Method: http.MethodPost,
		Body:   refreshRequest{RefreshToken: st.RefreshToken},
	}

	raw, err := p.exec.Execute(ctx, req, ambientOf(st))
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	creds, err := decodeCredentials(raw)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return creds, nil
}

func (p *Pipeline) persist(ctx context.Context, creds models.Credentials) {
	if p.sessions == nil {
		return
	}
	if err := p.sessions.Persist(context.WithoutCancel(ctx), session.CredentialsPartial(creds)); err != nil {
		p.log.Warn(ctx, "failed to persist refreshed credentials", "error", err)
	}
}

func (p *Pipeline) forceLogout(ctx context.Context) {
	p.auth.ClearAuth()

	if p.sessions != nil {
		if err := p.sessions.ClearCredentials(context.WithoutCancel(ctx)); err != nil {
			p.log.Warn(ctx, "failed to clear persisted credentials", "error", err)
		}
	}

	if p.nav != nil && p.nav.Ready() {
		p.nav.ResetToLogin()
	}
}

func ambientOf(st state.State) Ambient {
	return Ambient{
		AccessToken:     st.AccessToken,
		FingerprintHash: st.FingerprintHash,
		Language:        st.Language,
	}
}

// decodeCredentials accepts {accessToken, refreshToken, fingerprintHash?}
// either flat or under "data". Both tokens must be non-empty strings; the
// fingerprint, when present and not null, must be a string.
func decodeCredentials(raw json.RawMessage) (models.Credentials, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrMalformedTokens, err)
	}

	if _, flat := fields["accessToken"]; !flat {
		if data, ok := fields["data"]; ok {
			fields = nil
			if err := json.Unmarshal(data, &fields); err != nil {
				return models.Credentials{}, fmt.Errorf("%w: %w", ErrMalformedTokens, err)
			}
		}
	}

	var c models.Credentials
	var err error

	if c.AccessToken, err = stringField(fields, "accessToken", true); err != nil {
		return models.Credentials{}, err
	}
	if c.RefreshToken, err = stringField(fields, "refreshToken", true); err != nil {
		return models.Credentials{}, err
	}
	if c.FingerprintHash, err = stringField(fields, "fingerprintHash", false); err != nil {
		return models.Credentials{}, err
	}

	return c, nil
}

func stringField(fields map[string]json.RawMessage, name string, required bool) (string, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		if required {
			return "", fmt.Errorf("%w: %s is missing", ErrMalformedTokens, name)
		}
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformedTokens, name)
	}
	if required && s == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMalformedTokens, name)
	}
	return s, nil
}
