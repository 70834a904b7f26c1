package mockapi

import (
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// Demo accounts created by Seed.
const (
	DemoEmail    = "ann@example.com"
	DemoPassword = "password"
)

// Seed fills s with demo users and vacancies.
func Seed(s *Store) error {
	if _, err := s.AddUser(DemoEmail, DemoPassword, "Ann Candidate"); err != nil {
		return err
	}
	if _, err := s.AddUser("boris@example.com", "password", "Boris Seeker"); err != nil {
		return err
	}

	now := time.Now().UTC()
	vacancies := []models.Vacancy{
		{
			Title:          "Senior Go Developer",
			Company:        "Acme Payments",
			Location:       "Berlin",
			EmploymentType: models.EmploymentFullTime,
			Remote:         true,
			SalaryFrom:     80000,
			SalaryTo:       110000,
			Currency:       "EUR",
			Description:    "Build and run the payment gateway. Go, PostgreSQL, Kafka.",
		},
		{
			Title:          "Backend Engineer",
			Company:        "Northwind Logistics",
			Location:       "Riga",
			EmploymentType: models.EmploymentFullTime,
			SalaryFrom:     4000,
			SalaryTo:       6000,
			Currency:       "EUR",
			Description:    "Routing services for the warehouse network.",
		},
		{
			Title:          "Mobile Developer (React Native)",
			Company:        "Globex",
			Location:       "Warsaw",
			EmploymentType: models.EmploymentContract,
			Remote:         true,
			Description:    "Ship the candidate app to iOS and Android.",
		},
		{
			Title:          "QA Intern",
			Company:        "Initech",
			Location:       "Tallinn",
			EmploymentType: models.EmploymentInternship,
			SalaryFrom:     900,
			SalaryTo:       1200,
			Currency:       "EUR",
			Description:    "Manual and automated testing of internal tools.",
		},
		{
			Title:          "Site Reliability Engineer",
			Company:        "Umbrella Cloud",
			Location:       "Vilnius",
			EmploymentType: models.EmploymentFullTime,
			Remote:         true,
			SalaryFrom:     5000,
			SalaryTo:       7500,
			Currency:       "EUR",
			Description:    "Kubernetes, Terraform, on-call for the Go platform.",
		},
		{
			Title:          "Technical Writer",
			Company:        "Acme Payments",
			Location:       "Berlin",
			EmploymentType: models.EmploymentPartTime,
			Description:    "Document the public API.",
		},
	}

	for i, v := range vacancies {
		v.PublishedAt = now.Add(-time.Duration(i) * 24 * time.Hour)
		s.AddVacancy(v)
	}
	return nil
}
