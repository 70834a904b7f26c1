package cli

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// Profile shows the profile, or edits it with "profile edit". Empty answers
// keep the current value.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		u, err := a.profile.Get(ctx)
		if err != nil {
			return err
		}
		a.printUser(u)
		return nil
	}

	if args[0] != "edit" {
		return usageError("profile [edit]")
	}

	var upd models.ProfileUpdate

	name, err := getSimpleText(a.reader, "Full name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.FullName = &name
	}

	phone, err := getSimpleText(a.reader, "Phone (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if phone != "" {
		upd.Phone = &phone
	}

	if upd.FullName == nil && upd.Phone == nil {
		a.println("Nothing to update")
		return nil
	}

	u, err := a.profile.Update(ctx, upd)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}
