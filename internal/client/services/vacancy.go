package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrEmptyID = errors.New("id is required")

const (
	listKeyPrefix   = "list:"
	detailKeyPrefix = "vacancy:"
)

// VacancyService lists vacancies, shows one and applies to it.
type VacancyService interface {
	List(ctx context.Context, f models.VacancyFilter) (*models.Page[models.Vacancy], error)
	Get(ctx context.Context, id string) (*models.Vacancy, error)
	Apply(ctx context.Context, id string, in models.ApplyInput) (*models.Application, error)
	Invalidate()
}

// CacheConfig sizes the response cache. A zero Size disables caching.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// LocaleFunc returns the language responses are requested in. Cached
// entries are kept per language.
type LocaleFunc func() models.Locale

type vacancyService struct {
	runner client.Runner
	locale LocaleFunc

	// cache is nil when disabled
	cache *expirable.LRU[string, any]
}

func NewVacancyService(runner client.Runner, locale LocaleFunc, cfg CacheConfig) VacancyService {
	if locale == nil {
		locale = func() models.Locale { return models.DefaultLocale }
	}
	s := &vacancyService{runner: runner, locale: locale}
	if cfg.Size > 0 {
		s.cache = expirable.NewLRU[string, any](cfg.Size, nil, cfg.TTL)
	}
	return s
}

func (s *vacancyService) List(ctx context.Context, f models.VacancyFilter) (*models.Page[models.Vacancy], error) {
	path := "/vacancies"
	if q := f.Values().Encode(); q != "" {
		path += "?" + q
	}

	key := s.key(listKeyPrefix, path)
	if v, ok := s.cached(key); ok {
		if page, ok := v.(*models.Page[models.Vacancy]); ok {
			return page, nil
		}
	}

	raw, err := s.runner.Run(ctx, client.Request{Path: path})
	if err != nil {
		return nil, err
	}

	var page models.Page[models.Vacancy]
	if err := client.DecodeData(raw, &page); err != nil {
		return nil, err
	}

	s.store(key, &page)
	return &page, nil
}

func (s *vacancyService) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	key := s.key(detailKeyPrefix, id)
	if v, ok := s.cached(key); ok {
		if vac, ok := v.(*models.Vacancy); ok {
			return vac, nil
		}
	}

	raw, err := s.runner.Run(ctx, client.Request{Path: "/vacancies/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}

	var vac models.Vacancy
	if err := client.DecodeData(raw, &vac); err != nil {
		return nil, err
	}

	s.store(key, &vac)
	return &vac, nil
}

// Apply submits an application. With a resume attached the body is sent as
// multipart/form-data, otherwise as JSON. Cached listings and the vacancy
// detail are dropped since their "applied" flag changes.
func (s *vacancyService) Apply(ctx context.Context, id string, in models.ApplyInput) (*models.Application, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var body any = in
	if in.Resume != nil {
		form := &client.MultipartForm{
			Files: []client.FormFile{{
				Field:    "resume",
				FileName: in.Resume.FileName,
				Content:  in.Resume.Content,
			}},
		}
		if in.CoverLetter != "" {
			form.Fields = map[string]string{"coverLetter": in.CoverLetter}
		}
		body = form
	}

	raw, err := s.runner.Run(ctx, client.Request{
		Path:   fmt.Sprintf("/vacancies/%s/apply", url.PathEscape(id)),
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(id)

	var app models.Application
	if len(raw) == 0 {
		return &models.Application{VacancyID: id, Status: models.ApplicationPending}, nil
	}
	if err := client.DecodeData(raw, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Invalidate drops every cached response.
func (s *vacancyService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *vacancyService) invalidate(id string) {
	if s.cache == nil {
		return
	}
	for _, k := range s.cache.Keys() {
		if strings.Contains(k, "|"+listKeyPrefix) || strings.HasSuffix(k, "|"+detailKeyPrefix+id) {
			s.cache.Remove(k)
		}
	}
}

func (s *vacancyService) key(prefix, v string) string {
	return string(s.locale().OrDefault()) + "|" + prefix + v
}

func (s *vacancyService) cached(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *vacancyService) store(key string, v any) {
	if s.cache != nil {
		s.cache.Add(key, v)
	}
}
