package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/questlog/internal/client/account"
	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/client/config"
	"github.com/dmitrijs2005/questlog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/questlog/internal/logging"
)

type App struct {
	svc       client.Client
	store     metadata.Repository
	auth      *account.AuthOrchestrator
	identity  *account.IdentityResolver
	lifecycle *account.LifecycleController
	// newLifecycle builds the settings controller for a fresh session.
	newLifecycle func() *account.LifecycleController
	nav          *navigator
	log          logging.Logger

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	signedIn   bool
	honorAcked bool
}

// NewApp opens the local database, dials the service and wires the account
// components together.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}

	svc, err := client.NewIdentityClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dial identity service: %w", err)
	}

	a := newApp(svc, metadata.NewSQLiteRepository(db), log, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(svc client.Client, store metadata.Repository, log logging.Logger, in io.Reader, out io.Writer) *App {
	nav := newNavigator(account.ViewLanding)
	newLifecycle := func() *account.LifecycleController {
		return account.NewLifecycleController(svc, store, nav, log)
	}
	return &App{
		svc:          svc,
		store:        store,
		auth:         account.NewAuthOrchestrator(svc, nav, account.DefaultDomains, log),
		identity:     account.NewIdentityResolver(svc, log),
		lifecycle:    newLifecycle(),
		newLifecycle: newLifecycle,
		nav:          nav,
		log:          log.With("module", "cli"),
		reader:       bufio.NewReader(in),
		out:          out,
	}
}

// Run checks that the service is reachable and then serves the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	if err := a.svc.Ping(ctx); err != nil {
		a.log.Warn(ctx, "identity service not reachable", "error", err)
		a.println("The Questlog service is not reachable right now. Sign-in will fail until it is.")
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) close(ctx context.Context) {
	if err := a.svc.Close(); err != nil {
		a.log.Warn(ctx, "close service connection", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "close local database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.signedIn
}

func (a *App) status() string {
	return string(a.nav.Current())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
