package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/fatih/color"
)

// Vacancies lists vacancies. Arguments are joined into a search query; a
// trailing "page=N" selects the page.
func (a *App) Vacancies(ctx context.Context, args []string) error {
	f := models.VacancyFilter{Limit: 20}

	var terms []string
	for _, arg := range args {
		if p, ok := strings.CutPrefix(arg, "page="); ok {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 {
				return usageError("vacancies [query] [page=N]")
			}
			f.Page = n
			continue
		}
		terms = append(terms, arg)
	}
	f.Search = strings.Join(terms, " ")

	page, err := a.vacancies.List(ctx, f)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		a.println("No vacancies found")
		return nil
	}
	return a.renderVacancies(page)
}

func (a *App) Vacancy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("vacancy <id>")
	}

	v, err := a.vacancies.Get(ctx, args[0])
	if err != nil {
		return err
	}
	a.printVacancy(v)
	return nil
}

// Apply sends an application, optionally with a resume file. The cover
// letter is read interactively.
func (a *App) Apply(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("apply <id> [resume-path]")
	}

	var in models.ApplyInput
	if len(args) == 2 {
		att, err := models.LoadAttachment(args[1])
		if err != nil {
			return err
		}
		in.Resume = att
	}

	letter, err := GetMultiline(a.reader, "Cover letter", a.out)
	if err != nil {
		return err
	}
	in.CoverLetter = letter

	app, err := a.vacancies.Apply(ctx, args[0], in)
	if err != nil {
		return err
	}

	a.printColor(color.FgGreen, fmt.Sprintf("Applied to %s (status: %s)", app.VacancyID, app.Status))
	return nil
}

func (a *App) Applications(ctx context.Context, args []string) error {
	var status models.ApplicationStatus
	if len(args) > 0 {
		status = models.ApplicationStatus(args[0])
	}

	apps, err := a.applications.List(ctx, status)
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		a.println("No applications")
		return nil
	}
	return a.renderApplications(apps)
}

func (a *App) Withdraw(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("withdraw <id>")
	}
	if err := a.applications.Withdraw(ctx, args[0]); err != nil {
		return err
	}
	a.println("Application withdrawn")
	return nil
}
