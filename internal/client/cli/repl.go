package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Me(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Vacancies(ctx context.Context, args []string) error
	Vacancy(ctx context.Context, args []string) error
	Apply(ctx context.Context, args []string) error
	Applications(ctx context.Context, args []string) error
	Withdraw(ctx context.Context, args []string) error
	Lang(ctx context.Context, args []string) error
	Session(ctx context.Context, args []string) error
	report(err error)
}

const (
	guestHelp  = "Available commands: login, vacancies [query], vacancy <id>, lang <en|ru>, session, help, exit"
	memberHelp = "Available commands: me, profile [edit], vacancies [query], vacancy <id>, apply <id> [resume-path], " +
		"applications [status], withdraw <id>, lang <en|ru>, session, logout, help, exit"
)

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. The first token selects the command, the rest are its arguments.
// Command errors go to a.report and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "jb %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, memberHelp)
			} else {
				fmt.Fprintln(w, guestHelp)
			}
		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "me":
			cmdErr = a.Me(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "vacancies", "v":
			cmdErr = a.Vacancies(ctx, args)
		case "vacancy":
			cmdErr = a.Vacancy(ctx, args)
		case "apply":
			cmdErr = a.Apply(ctx, args)
		case "applications", "apps":
			cmdErr = a.Applications(ctx, args)
		case "withdraw":
			cmdErr = a.Withdraw(ctx, args)
		case "lang":
			cmdErr = a.Lang(ctx, args)
		case "session":
			cmdErr = a.Session(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		a.report(cmdErr)
	}
}

// usageError is returned for malformed command arguments.
type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}
