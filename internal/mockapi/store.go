package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrAlreadyApplied = errors.New("already applied")

type user struct {
	models.User
	passwordHash []byte
}

type application struct {
	models.Application
	userID string
}

type refreshToken struct {
	UserID      string
	Fingerprint string
	Expires     time.Time
}

// Store is the in-memory backend state. All methods are safe for
// concurrent use.
type Store struct {
	mu            sync.Mutex
	users         map[string]*user // by id
	emails        map[string]string
	vacancies     []models.Vacancy
	applications  map[string]*application
	refreshTokens map[string]refreshToken
}

func NewStore() *Store {
	return &Store{
		users:         map[string]*user{},
		emails:        map[string]string{},
		applications:  map[string]*application{},
		refreshTokens: map[string]refreshToken{},
	}
}

// AddUser registers a user with a bcrypt-hashed password.
func (s *Store) AddUser(email, password, fullName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.emails[key]; ok {
		return nil, common.ErrorConflict
	}

	u := &user{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			FullName:  fullName,
			Role:      "candidate",
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: hash,
	}
	s.users[u.ID] = u
	s.emails[key] = u.ID

	out := u.User
	return &out, nil
}

// AddVacancy stores v, assigning an id when empty.
func (s *Store) AddVacancy(v models.Vacancy) models.Vacancy {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.PublishedAt.IsZero() {
		v.PublishedAt = time.Now().UTC()
	}
	s.vacancies = append(s.vacancies, v)
	return v
}

// Authenticate checks email and password.
func (s *Store) Authenticate(email, password string) (*models.User, error) {
	s.mu.Lock()
	id, ok := s.emails[strings.ToLower(email)]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()

	if u == nil {
		return nil, common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	out := u.User
	return &out, nil
}

func (s *Store) User(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u.User
	return &out, nil
}

// UpdateUser applies the non-nil fields of upd.
func (s *Store) UpdateUser(id string, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.FullName != nil {
		if strings.TrimSpace(*upd.FullName) == "" {
			return nil, common.ErrorInvalidArgument
		}
		u.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	out := u.User
	return &out, nil
}

// SaveRefreshToken records token for userID until expires.
func (s *Store) SaveRefreshToken(token, userID, fingerprint string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[token] = refreshToken{UserID: userID, Fingerprint: fingerprint, Expires: expires}
}

// TakeRefreshToken removes token and returns its record. A token can be
// taken once; expired or unknown tokens fail.
func (s *Store) TakeRefreshToken(token string, now time.Time) (refreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.refreshTokens[token]
	if !ok {
		return refreshToken{}, common.ErrInvalidToken
	}
	delete(s.refreshTokens, token)

	if rt.Expires.Before(now) {
		return refreshToken{}, common.ErrRefreshTokenExpired
	}
	return rt, nil
}

// RevokeRefreshTokens drops every refresh token of userID.
func (s *Store) RevokeRefreshTokens(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, rt := range s.refreshTokens {
		if rt.UserID == userID {
			delete(s.refreshTokens, k)
		}
	}
}

// VacancyQuery filters and paginates ListVacancies.
type VacancyQuery struct {
	Search         string
	Location       string
	EmploymentType models.EmploymentType
	Remote         *bool
	SalaryMin      int64
	Page           int
	Limit          int
}

// ListVacancies returns a page of vacancies, newest first, with the Applied
// flag set for userID.
func (s *Store) ListVacancies(q VacancyQuery, userID string) models.Page[models.Vacancy] {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(q.Search)
	var matched []models.Vacancy
	for _, v := range s.vacancies {
		if search != "" && !strings.Contains(strings.ToLower(v.Title+" "+v.Company+" "+v.Description), search) {
			continue
		}
		if q.Location != "" && !strings.EqualFold(v.Location, q.Location) {
			continue
		}
		if q.EmploymentType != "" && v.EmploymentType != q.EmploymentType {
			continue
		}
		if q.Remote != nil && v.Remote != *q.Remote {
			continue
		}
		if q.SalaryMin > 0 && v.SalaryTo > 0 && v.SalaryTo < q.SalaryMin {
			continue
		}
		v.Applied = s.appliedLocked(v.ID, userID)
		matched = append(matched, v)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PublishedAt.After(matched[j].PublishedAt)
	})

	page, limit := max(q.Page, 1), q.Limit
	if limit <= 0 {
		limit = 20
	}

	from := min((page-1)*limit, len(matched))
	to := min(from+limit, len(matched))

	items := append([]models.Vacancy{}, matched[from:to]...)
	return models.Page[models.Vacancy]{Items: items, Total: len(matched), Page: page, Limit: limit}
}

func (s *Store) Vacancy(id, userID string) (*models.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vacancyLocked(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	v.Applied = s.appliedLocked(id, userID)
	return &v, nil
}

// Apply creates a pending application of userID to vacancyID.
func (s *Store) Apply(vacancyID, userID, coverLetter, resumeName string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vacancyLocked(vacancyID); !ok {
		return nil, common.ErrorNotFound
	}
	if s.appliedLocked(vacancyID, userID) {
		return nil, ErrAlreadyApplied
	}

	app := &application{
		Application: models.Application{
			ID:          uuid.NewString(),
			VacancyID:   vacancyID,
			Status:      models.ApplicationPending,
			CoverLetter: coverLetter,
			ResumeName:  resumeName,
			CreatedAt:   time.Now().UTC(),
		},
		userID: userID,
	}
	s.applications[app.ID] = app

	out := app.Application
	return &out, nil
}

// Applications lists userID's applications, optionally by status.
func (s *Store) Applications(userID string, status models.ApplicationStatus) []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Application{}
	for _, app := range s.applications {
		if app.userID != userID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		a := app.Application
		if v, ok := s.vacancyLocked(a.VacancyID); ok {
			a.Vacancy = &v
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Withdraw deletes one of userID's applications.
func (s *Store) Withdraw(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok || app.userID != userID {
		return common.ErrorNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *Store) vacancyLocked(id string) (models.Vacancy, bool) {
	for _, v := range s.vacancies {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vacancy{}, false
}

func (s *Store) appliedLocked(vacancyID, userID string) bool {
	if userID == "" {
		return false
	}
	for _, app := range s.applications {
		if app.VacancyID == vacancyID && app.userID == userID {
			return true
		}
	}
	return false
}
