package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/config"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/client/services"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
	"github.com/dmitrijs2005/jobboard/internal/client/state"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/fatih/color"
)

type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenMain  Screen = "main"
)

// App is the interactive client. It satisfies client.Navigator.
type App struct {
	auth         services.AuthService
	vacancies    services.VacancyService
	applications services.ApplicationService
	profile      services.ProfileService
	state        *state.Store
	catalog      notify.Catalog

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex
	log    logging.Logger

	ready  atomic.Bool
	screen atomic.Value // Screen

	closers []io.Closer
}

// NewApp wires the client from cfg: session database, Auth State, HTTP
// executor, reauthenticating pipeline, toast middleware and services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := session.InitDatabase(ctx, cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	sessions, err := session.NewStore(ctx, db, cfg.SessionSecret, cfg.Language, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error opening session store: %w", err)
	}

	a := newApp(state.NewStore(cfg.Language), bufio.NewReader(os.Stdin), os.Stdout, log)
	a.closers = append(a.closers, db)
	a.wire(cfg, sessions)

	return a, nil
}

func newApp(st *state.Store, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{state: st, catalog: notify.DefaultCatalog(), reader: reader, out: out, log: log}
	a.screen.Store(ScreenLogin)
	return a
}

func (a *App) wire(cfg *config.Config, sessions *session.Store) {
	exec := client.NewHTTPExecutor(cfg.BaseURL, &http.Client{Timeout: cfg.RequestTimeout}, a.log)

	var opts []client.Option
	if cfg.CoalesceRefresh {
		opts = append(opts, client.WithRefreshCoalescing())
	}
	pipeline := client.NewPipeline(exec, a.state, sessions, a, a.log, opts...)

	runner := notify.NewMiddleware(pipeline, notify.NewPrintNotifier(a.out), a.catalog, a.language)

	a.auth = services.NewAuthService(runner, a.state, sessions, a.log)
	a.vacancies = services.NewVacancyService(runner, a.language, services.CacheConfig{
		Size: cfg.VacancyCacheSize,
		TTL:  cfg.VacancyCacheTTL,
	})
	a.applications = services.NewApplicationService(runner, a.vacancies.Invalidate)
	a.profile = services.NewProfileService(runner, a.state)
}

func (a *App) language() models.Locale {
	return a.state.Snapshot().Language
}

// Ready reports whether the REPL is running.
func (a *App) Ready() bool {
	return a.ready.Load()
}

// ResetToLogin is called by the pipeline after a forced logout.
func (a *App) ResetToLogin() {
	a.screen.Store(ScreenLogin)
	a.vacancies.Invalidate()
	a.printColor(color.FgYellow, "Your session has expired. Please log in again.")
}

// Screen returns the screen the REPL is showing.
func (a *App) Screen() Screen {
	return a.screen.Load().(Screen)
}

func (a *App) isLoggedIn() bool {
	return a.state.Snapshot().IsAuthenticated()
}

// Run restores the session and blocks in the REPL until the user exits or
// ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.auth.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	if a.isLoggedIn() {
		a.screen.Store(ScreenMain)
	}

	a.println("Welcome to JobBoard CLI (type 'help' for commands)")

	a.ready.Store(true)
	defer a.ready.Store(false)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

// Close releases the session database.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) getStatus() string {
	st := a.state.Snapshot()
	who := "guest"
	if st.User != nil {
		who = st.User.Email
	}
	return fmt.Sprintf("(%s %s)", who, st.Language)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printColor(attr color.Attribute, msg string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = color.New(attr).Fprintln(a.out, msg)
}

// report prints errors the toast middleware did not already show.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	if _, ok := client.AsFailure(err); ok {
		return
	}
	a.printColor(color.FgRed, "error: "+err.Error())
}
