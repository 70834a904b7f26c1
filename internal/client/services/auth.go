package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
	"github.com/dmitrijs2005/jobboard/internal/client/state"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

var ErrEmptyCredentials = errors.New("email and password are required")

// SessionStore is the durable side of the session.
type SessionStore interface {
	Load(ctx context.Context) (session.Data, error)
	Persist(ctx context.Context, p session.Partial) error
	Clear(ctx context.Context) error
}

// AuthState is the subset of the Auth State the services dispatch to.
type AuthState interface {
	Snapshot() state.State
	Hydrate(d session.Data)
	SetCredentials(c models.Credentials)
	SetUser(u *models.User)
	ClearAuth()
	SetBootstrapped()
	SetLanguage(l models.Locale)
}

// AuthService covers the session lifecycle of the CLI.
//
// Contract:
//   - Bootstrap: restore the stored session, resolve the user if possible and
//     mark the state bootstrapped whatever the outcome.
//   - Login: exchange credentials for a token pair; the pair is persisted
//     before Login returns.
//   - Logout: user-initiated sign out; the server call is best effort.
//   - Me: fetch and record the current user.
//   - SetLanguage: switch and persist the locale.
type AuthService interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	SetLanguage(ctx context.Context, l models.Locale) error
}

type authService struct {
	runner   client.Runner
	auth     AuthState
	sessions SessionStore
	log      logging.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(runner client.Runner, auth AuthState, sessions SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{runner: runner, auth: auth, sessions: sessions, log: log}
}

// Bootstrap loads the session into the Auth State. A failing identity fetch
// leaves the user as guest; only a storage error is returned.
func (s *authService) Bootstrap(ctx context.Context) error {
	defer s.auth.SetBootstrapped()

	data, err := s.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	s.auth.Hydrate(data)

	if data.AccessToken == "" {
		return nil
	}

	if _, err := s.Me(ctx); err != nil {
		s.log.Info(ctx, "stored session could not be resumed", "error", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	raw, err := s.runner.Run(ctx, client.Request{
		Path:        common.LoginPath,
		Method:      http.MethodPost,
		Body:        models.LoginInput{Email: email, Password: password},
		SkipRefresh: true,
	})
	if err != nil {
		return nil, err
	}

	var creds models.Credentials
	if err := client.DecodeData(raw, &creds); err != nil {
		return nil, err
	}
	if creds.AccessToken == "" || creds.RefreshToken == "" {
		return nil, &client.Failure{Kind: client.KindParse, Err: client.ErrMalformedTokens}
	}

	s.auth.SetCredentials(creds)
	if err := s.sessions.Persist(ctx, session.CredentialsPartial(creds)); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return s.Me(ctx)
}

// Logout signs out on the server when possible and always clears the local
// session. The language survives in memory and is written back.
func (s *authService) Logout(ctx context.Context) error {
	if s.auth.Snapshot().AccessToken != "" {
		if _, err := s.runner.Run(ctx, client.Request{Path: common.LogoutPath, Method: http.MethodPost}); err != nil {
			s.log.Debug(ctx, "server logout failed", "error", err)
		}
	}

	lang := s.auth.Snapshot().Language
	s.auth.ClearAuth()

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return s.sessions.Persist(ctx, session.Partial{Language: &lang})
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	raw, err := s.runner.Run(ctx, client.Request{Path: common.MePath})
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := client.DecodeData(raw, &u); err != nil {
		return nil, err
	}

	s.auth.SetUser(&u)
	return &u, nil
}

func (s *authService) SetLanguage(ctx context.Context, l models.Locale) error {
	if !l.Valid() {
		return fmt.Errorf("unsupported language %q", l)
	}
	s.auth.SetLanguage(l)
	return s.sessions.Persist(ctx, session.Partial{Language: &l})
}
