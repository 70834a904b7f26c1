package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/common"
)

// Error codes sent in {"error": {"code"}}.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeRefreshInvalid     = "REFRESH_TOKEN_INVALID"
	CodeFingerprint        = "FINGERPRINT_MISMATCH"
	CodeVacancyNotFound    = "VACANCY_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyApplied     = "ALREADY_APPLIED"
	CodeValidation         = "VALIDATION_FAILED"
)

var messages = map[models.Locale]map[string]string{
	models.LocaleEN: {
		CodeInvalidCredentials: "invalid email or password",
		CodeTokenExpired:       "access token expired",
		CodeTokenInvalid:       "access token is invalid",
		CodeRefreshInvalid:     "refresh token is invalid or expired",
		CodeFingerprint:        "token was issued to another client",
		CodeVacancyNotFound:    "vacancy not found",
		CodeNotFound:           "not found",
		CodeAlreadyApplied:     "you have already applied to this vacancy",
		CodeValidation:         "request is invalid",
	},
	models.LocaleRU: {
		CodeInvalidCredentials: "неверный email или пароль",
		CodeTokenExpired:       "срок действия токена истёк",
		CodeTokenInvalid:       "недействительный токен",
		CodeRefreshInvalid:     "недействительный токен обновления",
		CodeFingerprint:        "токен выдан другому клиенту",
		CodeVacancyNotFound:    "вакансия не найдена",
		CodeNotFound:           "не найдено",
		CodeAlreadyApplied:     "вы уже откликнулись на эту вакансию",
		CodeValidation:         "некорректный запрос",
	},
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestLocale(r *http.Request) models.Locale {
	l, _ := models.ParseLocale(r.Header.Get(common.HeaderAcceptLanguage))
	return l.OrDefault()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.HeaderContentType, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	msg := messages[requestLocale(r)][code]
	writeJSON(w, status, map[string]any{"error": errorPayload{Code: code, Message: msg}})
}
