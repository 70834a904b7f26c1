package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func (a *App) renderTable(header []string, rows [][]string) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	t := newTable(a.out)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func (a *App) renderVacancies(page *models.Page[models.Vacancy]) error {
	rows := make([][]string, 0, len(page.Items))
	for _, v := range page.Items {
		rows = append(rows, []string{
			v.ID, v.Title, v.Company, location(v), salary(v), mark(v.Applied),
		})
	}
	if err := a.renderTable([]string{"id", "title", "company", "location", "salary", "applied"}, rows); err != nil {
		return err
	}
	if page.Total > len(page.Items) {
		a.printf("page %d, %d of %d\n", max(page.Page, 1), len(page.Items), page.Total)
	}
	return nil
}

func (a *App) renderApplications(apps []models.Application) error {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		title := app.VacancyID
		if app.Vacancy != nil {
			title = app.Vacancy.Title
		}
		rows = append(rows, []string{
			app.ID, title, string(app.Status), app.CreatedAt.Format("2006-01-02"),
		})
	}
	return a.renderTable([]string{"id", "vacancy", "status", "created"}, rows)
}

func (a *App) printVacancy(v *models.Vacancy) {
	a.printf("%s\n%s, %s\n", v.Title, v.Company, location(*v))
	a.printf("Employment: %s\n", v.EmploymentType)
	if s := salary(*v); s != "" {
		a.printf("Salary: %s\n", s)
	}
	if v.Applied {
		a.println("You have applied to this vacancy.")
	}
	if v.Description != "" {
		a.printf("\n%s\n", v.Description)
	}
}

func (a *App) printUser(u *models.User) {
	a.printf("ID:    %s\nEmail: %s\nName:  %s\n", u.ID, u.Email, u.FullName)
	if u.Phone != "" {
		a.printf("Phone: %s\n", u.Phone)
	}
}

func location(v models.Vacancy) string {
	if v.Remote {
		if v.Location == "" {
			return "remote"
		}
		return v.Location + " / remote"
	}
	return v.Location
}

func salary(v models.Vacancy) string {
	switch {
	case v.SalaryFrom > 0 && v.SalaryTo > 0:
		return fmt.Sprintf("%d-%d %s", v.SalaryFrom, v.SalaryTo, v.Currency)
	case v.SalaryFrom > 0:
		return "from " + strconv.FormatInt(v.SalaryFrom, 10) + " " + v.Currency
	case v.SalaryTo > 0:
		return "up to " + strconv.FormatInt(v.SalaryTo, 10) + " " + v.Currency
	default:
		return ""
	}
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
