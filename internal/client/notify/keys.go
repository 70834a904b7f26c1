package notify

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// Message keys.
const (
	KeyForbidden  = "errors.forbidden"
	KeyNotFound   = "errors.notFound"
	KeyConflict   = "errors.conflict"
	KeyValidation = "errors.validation"
	KeyServer     = "errors.server"
	KeyUnknown    = "errors.unknown"
	KeyNetwork    = "errors.network"
	KeyGeneric    = "errors.generic"

	codeKeyPrefix = "errors.code."
)

// Translator maps a message key to text in a language.
type Translator interface {
	Translate(lang models.Locale, key string) (string, bool)
}

// ResolveKey returns the message key for err. ok is false when nothing
// should be shown. A panic inside the translator yields KeyGeneric.
func ResolveKey(err error, lang models.Locale, tr Translator) (key string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			key, ok = KeyGeneric, true
		}
	}()

	if err == nil {
		return "", false
	}

	f, isFailure := client.AsFailure(err)
	if !isFailure {
		return KeyGeneric, true
	}

	switch f.Kind {
	case client.KindTransport:
		return KeyNetwork, true
	case client.KindParse:
		return KeyGeneric, true
	}

	if f.Status == http.StatusUnauthorized {
		return "", false
	}

	if code := f.Code(); code != "" && tr != nil {
		if _, known := tr.Translate(lang, codeKeyPrefix+code); known {
			return codeKeyPrefix + code, true
		}
	}

	return statusKey(f.Status), true
}

func statusKey(status int) string {
	switch {
	case status == http.StatusForbidden:
		return KeyForbidden
	case status == http.StatusNotFound:
		return KeyNotFound
	case status == http.StatusConflict:
		return KeyConflict
	case status == http.StatusUnprocessableEntity:
		return KeyValidation
	case status >= 500:
		return KeyServer
	default:
		return KeyUnknown
	}
}

// Message resolves err to display text. The generic message is used when the
// key has no translation.
func Message(err error, lang models.Locale, tr Translator) (string, bool) {
	key, ok := ResolveKey(err, lang, tr)
	if !ok {
		return "", false
	}
	if tr == nil {
		return key, true
	}
	if text, found := safeTranslate(tr, lang, key); found {
		return text, true
	}
	if text, found := safeTranslate(tr, lang, KeyGeneric); found {
		return text, true
	}
	return KeyGeneric, true
}

func safeTranslate(tr Translator, lang models.Locale, key string) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()
	return tr.Translate(lang, key)
}

// CodeKey is the message key for a structured error code.
func CodeKey(code string) string {
	return fmt.Sprintf("%s%s", codeKeyPrefix, code)
}
