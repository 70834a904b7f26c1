package models

import (
	"net/url"
	"strconv"
	"time"
)

// EmploymentType classifies a vacancy.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

type Vacancy struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employmentType"`
	Remote         bool           `json:"remote"`
	SalaryFrom     int64          `json:"salaryFrom,omitempty"`
	SalaryTo       int64          `json:"salaryTo,omitempty"`
	Currency       string         `json:"currency,omitempty"`
	Description    string         `json:"description,omitempty"`
	PublishedAt    time.Time      `json:"publishedAt"`
	Applied        bool           `json:"applied"`
}

// VacancyFilter narrows GET /vacancies. Zero values are omitted from the
// query string.
type VacancyFilter struct {
	Search         string
	Location       string
	EmploymentType EmploymentType
	Remote         *bool
	SalaryMin      int64
	Page           int
	Limit          int
}

// Values encodes the filter as URL query parameters.
func (f VacancyFilter) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.EmploymentType != "" {
		v.Set("employmentType", string(f.EmploymentType))
	}
	if f.Remote != nil {
		v.Set("remote", strconv.FormatBool(*f.Remote))
	}
	if f.SalaryMin > 0 {
		v.Set("salaryMin", strconv.FormatInt(f.SalaryMin, 10))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
