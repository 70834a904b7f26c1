package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxResumeSize bounds multipart apply bodies.
const maxResumeSize = 5 << 20

type ctxKey struct{}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

// authenticate resolves the bearer token of r. ok is false when a response
// has already been written.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (userID string, ok bool) {
	token, found := strings.CutPrefix(r.Header.Get(common.HeaderAuthorization), common.BearerScheme)
	if !found || token == "" {
		writeError(w, r, http.StatusUnauthorized, CodeTokenInvalid)
		return "", false
	}

	claims, err := s.issuer.Parse(token)
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		writeError(w, r, http.StatusUnauthorized, CodeTokenExpired)
		return "", false
	case err != nil:
		writeError(w, r, http.StatusUnauthorized, CodeTokenInvalid)
		return "", false
	}

	if claims.Fingerprint != "" && r.Header.Get(common.HeaderFingerprint) != claims.Fingerprint {
		writeError(w, r, http.StatusUnauthorized, CodeFingerprint)
		return "", false
	}

	return claims.UserID, true
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	}
}

// optionalAuth lets guests through. A present but unusable token is still
// rejected.
func (s *Server) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.HeaderAuthorization) == "" {
			next(w, r)
			return
		}
		s.requireAuth(next)(w, r)
	}
}

func (s *Server) issuePair(userID, fingerprint string) (*models.Credentials, error) {
	access, err := s.issuer.GenerateToken(userID, fingerprint)
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	s.store.SaveRefreshToken(refresh, userID, fingerprint, s.now().Add(s.refreshTTL))

	return &models.Credentials{AccessToken: access, RefreshToken: refresh, FingerprintHash: fingerprint}, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeBody(r, &in); err != nil || in.Email == "" || in.Password == "" {
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	}

	u, err := s.store.Authenticate(in.Email, in.Password)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, CodeInvalidCredentials)
		return
	}

	creds, err := s.issuePair(u.ID, uuid.NewString())
	if err != nil {
		s.logger.Error(r.Context(), "failed to issue tokens", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "user", u.ID)
	writeData(w, http.StatusOK, creds)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if err := decodeBody(r, &in); err != nil || in.RefreshToken == "" {
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	}

	rt, err := s.store.TakeRefreshToken(in.RefreshToken, s.now())
	if err != nil {
		s.logger.Debug(r.Context(), "refresh rejected", "error", err)
		writeError(w, r, http.StatusUnauthorized, CodeRefreshInvalid)
		return
	}

	if fp := r.Header.Get(common.HeaderFingerprint); fp != "" && fp != rt.Fingerprint {
		writeError(w, r, http.StatusUnauthorized, CodeFingerprint)
		return
	}

	creds, err := s.issuePair(rt.UserID, rt.Fingerprint)
	if err != nil {
		s.logger.Error(r.Context(), "failed to issue tokens", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeData(w, http.StatusOK, creds)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.RevokeRefreshTokens(userIDFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.User(userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, CodeTokenInvalid)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	}

	u, err := s.store.UpdateUser(userIDFrom(r.Context()), in)
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	case err != nil:
		writeError(w, r, http.StatusNotFound, CodeNotFound)
		return
	}
	writeData(w, http.StatusOK, u)
}

func parseVacancyQuery(r *http.Request) (VacancyQuery, error) {
	v := r.URL.Query()
	q := VacancyQuery{
		Search:         v.Get("search"),
		Location:       v.Get("location"),
		EmploymentType: models.EmploymentType(v.Get("employmentType")),
	}

	var err error
	if s := v.Get("remote"); s != "" {
		b, perr := strconv.ParseBool(s)
		if perr != nil {
			return q, perr
		}
		q.Remote = &b
	}
	if s := v.Get("salaryMin"); s != "" {
		if q.SalaryMin, err = strconv.ParseInt(s, 10, 64); err != nil {
			return q, err
		}
	}
	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	return q, nil
}

func (s *Server) handleListVacancies(w http.ResponseWriter, r *http.Request) {
	q, err := parseVacancyQuery(r)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	}
	writeData(w, http.StatusOK, s.store.ListVacancies(q, userIDFrom(r.Context())))
}

func (s *Server) handleGetVacancy(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Vacancy(mux.Vars(r)["id"], userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, http.StatusNotFound, CodeVacancyNotFound)
		return
	}
	writeData(w, http.StatusOK, v)
}

// readApplyInput accepts a JSON body or a multipart form with a coverLetter
// field and an optional resume file.
func readApplyInput(w http.ResponseWriter, r *http.Request) (coverLetter, resumeName string, err error) {
	if !strings.HasPrefix(r.Header.Get(common.HeaderContentType), "multipart/form-data") {
		var in models.ApplyInput
		if err := decodeBody(r, &in); err != nil && !errors.Is(err, io.EOF) {
			return "", "", err
		}
		return in.CoverLetter, "", nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeSize)
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		return "", "", err
	}
	coverLetter = r.FormValue("coverLetter")

	f, hdr, err := r.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return coverLetter, "", nil
	case err != nil:
		return "", "", err
	}
	defer f.Close()
	return coverLetter, hdr.Filename, nil
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	coverLetter, resumeName, err := readApplyInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, CodeValidation)
		return
	}

	app, err := s.store.Apply(mux.Vars(r)["id"], userIDFrom(r.Context()), coverLetter, resumeName)
	switch {
	case errors.Is(err, ErrAlreadyApplied):
		writeError(w, r, http.StatusConflict, CodeAlreadyApplied)
		return
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, r, http.StatusNotFound, CodeVacancyNotFound)
		return
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	status := models.ApplicationStatus(r.URL.Query().Get("status"))
	writeData(w, http.StatusOK, s.store.Applications(userIDFrom(r.Context()), status))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Withdraw(mux.Vars(r)["id"], userIDFrom(r.Context())); err != nil {
		writeError(w, r, http.StatusNotFound, CodeNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
