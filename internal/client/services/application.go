package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// ApplicationService lists the user's applications and withdraws them.
type ApplicationService interface {
	List(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	Withdraw(ctx context.Context, id string) error
}

type applicationService struct {
	runner client.Runner

	// onChange is called after a successful withdrawal
	onChange func()
}

// NewApplicationService constructs an ApplicationService. onChange may be
// nil; it is used to drop cached vacancy data.
func NewApplicationService(runner client.Runner, onChange func()) ApplicationService {
	if onChange == nil {
		onChange = func() {}
	}
	return &applicationService{runner: runner, onChange: onChange}
}

func (s *applicationService) List(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	path := "/applications"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	raw, err := s.runner.Run(ctx, client.Request{Path: path})
	if err != nil {
		return nil, err
	}

	apps := []models.Application{}
	if len(raw) == 0 {
		return apps, nil
	}
	if err := client.DecodeData(raw, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *applicationService) Withdraw(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	_, err := s.runner.Run(ctx, client.Request{
		Path:   "/applications/" + url.PathEscape(id),
		Method: http.MethodDelete,
	})
	if err != nil {
		return err
	}

	s.onChange()
	return nil
}
