package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

const profilePath = "/users/me"

type ProfileService interface {
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, in models.ProfileUpdate) (*models.User, error)
}

// UserSetter records the current user in the Auth State.
type UserSetter interface {
	SetUser(u *models.User)
}

type profileService struct {
	runner client.Runner
	users  UserSetter
}

func NewProfileService(runner client.Runner, users UserSetter) ProfileService {
	return &profileService{runner: runner, users: users}
}

func (s *profileService) Get(ctx context.Context) (*models.User, error) {
	return s.do(ctx, client.Request{Path: profilePath})
}

// Update patches the profile and stores the returned user.
func (s *profileService) Update(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	return s.do(ctx, client.Request{Path: profilePath, Method: http.MethodPatch, Body: in})
}

func (s *profileService) do(ctx context.Context, req client.Request) (*models.User, error) {
	raw, err := s.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := client.DecodeData(raw, &u); err != nil {
		return nil, err
	}

	if s.users != nil {
		s.users.SetUser(&u)
	}
	return &u, nil
}
