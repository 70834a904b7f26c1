package notify

import "github.com/dmitrijs2005/jobboard/internal/client/models"

// Catalog is an in-memory Translator. Missing languages fall back to
// models.DefaultLocale.
type Catalog map[models.Locale]map[string]string

func (c Catalog) Translate(lang models.Locale, key string) (string, bool) {
	if msgs, ok := c[lang]; ok {
		if text, ok := msgs[key]; ok {
			return text, true
		}
	}
	text, ok := c[models.DefaultLocale][key]
	return text, ok
}

// DefaultCatalog holds the built-in English and Russian messages.
func DefaultCatalog() Catalog {
	return Catalog{
		models.LocaleEN: {
			KeyForbidden:  "You do not have access to this action.",
			KeyNotFound:   "Nothing was found.",
			KeyConflict:   "This action conflicts with the current state.",
			KeyValidation: "Please check the entered data.",
			KeyServer:     "The server is unavailable, try again later.",
			KeyUnknown:    "Something went wrong.",
			KeyNetwork:    "No connection to the server.",
			KeyGeneric:    "Something went wrong.",

			CodeKey("ALREADY_APPLIED"):     "You have already applied to this vacancy.",
			CodeKey("VACANCY_NOT_FOUND"):   "The vacancy no longer exists.",
			CodeKey("VACANCY_CLOSED"):      "The vacancy is closed.",
			CodeKey("INVALID_CREDENTIALS"): "Wrong email or password.",
		},
		models.LocaleRU: {
			KeyForbidden:  "Нет доступа к этому действию.",
			KeyNotFound:   "Ничего не найдено.",
			KeyConflict:   "Действие конфликтует с текущим состоянием.",
			KeyValidation: "Проверьте введённые данные.",
			KeyServer:     "Сервер недоступен, попробуйте позже.",
			KeyUnknown:    "Что-то пошло не так.",
			KeyNetwork:    "Нет соединения с сервером.",
			KeyGeneric:    "Что-то пошло не так.",

			CodeKey("ALREADY_APPLIED"):     "Вы уже откликнулись на эту вакансию.",
			CodeKey("VACANCY_NOT_FOUND"):   "Вакансия больше не существует.",
			CodeKey("VACANCY_CLOSED"):      "Вакансия закрыта.",
			CodeKey("INVALID_CREDENTIALS"): "Неверный email или пароль.",
		},
	}
}
