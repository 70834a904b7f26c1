package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
)

const codeInvalidCredentials = "INVALID_CREDENTIALS"

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for email and password. An email may also be passed as the
// first argument. The password buffer is wiped before returning.
func (a *App) Login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, string(password))
	if client.IsUnauthorized(err) {
		a.printColor(color.FgRed, a.loginRejection(err))
		return err
	}
	if err != nil {
		return err
	}

	a.screen.Store(ScreenMain)
	a.vacancies.Invalidate()
	a.printColor(color.FgGreen, fmt.Sprintf("Logged in as %s", u.Email))
	return nil
}

// loginRejection is the text shown for a 401 from login. Toasts skip 401s,
// so the command reports it.
func (a *App) loginRejection(err error) string {
	lang := a.language()
	if f, ok := client.AsFailure(err); ok && f.Code() != "" {
		if text, ok := a.catalog.Translate(lang, notify.CodeKey(f.Code())); ok {
			return text
		}
	}
	text, _ := a.catalog.Translate(lang, notify.CodeKey(codeInvalidCredentials))
	return text
}

// Logout is the user-initiated sign out.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.screen.Store(ScreenLogin)
	a.vacancies.Invalidate()
	a.println("Logged out")
	return nil
}

func (a *App) Me(ctx context.Context, _ []string) error {
	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

// Lang shows or switches the language.
func (a *App) Lang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Language: %s\n", a.language())
		return nil
	}

	l, ok := models.ParseLocale(args[0])
	if !ok {
		return usageError("lang <en|ru>")
	}
	if err := a.auth.SetLanguage(ctx, l); err != nil {
		return err
	}
	a.printf("Language: %s\n", l)
	return nil
}

// Session prints what the client knows about the current session. The
// access token's claims are decoded without verification, for display only.
func (a *App) Session(_ context.Context, _ []string) error {
	st := a.state.Snapshot()

	a.printf("Screen:      %s\n", a.Screen())
	a.printf("Language:    %s\n", st.Language)
	a.printf("Refreshable: %t\n", st.RefreshToken != "")
	a.printf("Fingerprint: %t\n", st.FingerprintHash != "")

	if st.AccessToken == "" {
		a.println("Access token: none")
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(st.AccessToken, claims); err != nil {
		a.println("Access token: opaque")
		return nil
	}

	sub, _ := claims.GetSubject()
	a.printf("Subject:     %s\n", sub)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		left := time.Until(exp.Time).Round(time.Second)
		a.printf("Expires:     %s (%s)\n", exp.Time.Local().Format(time.RFC3339), left)
	}
	return nil
}
