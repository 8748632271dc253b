// Package cli implements the papertrade command line: one subcommand per
// ledger operation plus the HTTP server.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ndewijer/papertrade/internal/api"
	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/config"
	"github.com/ndewijer/papertrade/internal/database"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/quote"
	"github.com/ndewijer/papertrade/internal/render"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/service"
)

// Register adds the papertrade subcommands to c, grouped the way `help` lists them.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&migrateCmd{app: app}, "setup")
	c.Register(&serveCmd{app: app}, "setup")

	c.Register(&signupCmd{app: app}, "account")
	c.Register(&loginCmd{app: app}, "account")
	c.Register(&logoutCmd{app: app}, "account")
	c.Register(&whoamiCmd{app: app}, "account")

	c.Register(&quoteCmd{app: app}, "market")
	c.Register(&marketCmd{app: app}, "market")

	c.Register(&tradeCmd{app: app, kind: model.Buy}, "trading")
	c.Register(&tradeCmd{app: app, kind: model.Sell}, "trading")

	c.Register(&portfolioCmd{app: app}, "reports")
	c.Register(&historyCmd{app: app}, "reports")
	c.Register(&leaderboardCmd{app: app}, "reports")
}

// App holds what the subcommands share for one invocation. The database and
// quote provider are opened on first use, so `help` never touches them.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Plain prints raw markdown instead of terminal-styled output.
	Plain bool
	Width int

	// Quoter and Lister replace the configured quote provider when set.
	Quoter quote.Quoter
	Lister quote.SymbolLister

	db       *sql.DB
	services *api.Services
	sessions *auth.Sessions
	closers  []io.Closer
}

// NewApp creates an App reading from stdin and writing to stdout and stderr.
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Log:    log,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Width:  render.DefaultWidth,
	}
}

// Services opens the ledger database, applies pending migrations and wires the service layer.
func (a *App) Services(ctx context.Context) (*api.Services, error) {
	if a.services != nil {
		return a.services, nil
	}

	db, err := database.Open(a.Config.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, a.Log); err != nil {
		db.Close()
		return nil, err
	}
	a.db = db

	quoter, lister := a.quoteProvider()

	accountRepo := repository.NewAccountRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	a.services = &api.Services{
		System:      service.NewSystemService(db),
		Account:     service.NewAccountService(accountRepo, a.Config.Trading.StartingBalance, a.Log),
		Market:      service.NewMarketService(quoter, lister, a.Log),
		Trade:       service.NewTradeService(db, accountRepo, holdingRepo, transactionRepo, quoter, a.Log),
		Portfolio:   service.NewPortfolioService(db, accountRepo, holdingRepo, quoter, a.Log),
		Transaction: service.NewTransactionService(accountRepo, transactionRepo),
		Leaderboard: service.NewLeaderboardService(accountRepo),
	}
	return a.services, nil
}

// quoteProvider builds the configured quote client, wrapped in the Redis
// cache when REDIS_ADDR is set. Yahoo cannot list symbols.
func (a *App) quoteProvider() (quote.Quoter, quote.SymbolLister) {
	if a.Quoter != nil {
		return a.Quoter, a.Lister
	}

	cfg := a.Config.Quote
	client := &http.Client{Timeout: cfg.Timeout}

	var quoter quote.Quoter
	var lister quote.SymbolLister
	switch cfg.Provider {
	case config.ProviderYahoo:
		quoter = quote.NewYahooClient(client, quote.DefaultYahooBaseURL, quote.DefaultRetry, a.Log)
	default:
		if cfg.FinnhubAPIKey == "" {
			a.Log.Warn().Msg("FINNHUB_API_KEY is not set, quotes will be rejected")
		}
		finnhub := quote.NewFinnhubClient(client, cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, quote.DefaultRetry, a.Log)
		quoter, lister = finnhub, finnhub
	}

	if cfg.RedisAddr != "" {
		cache := quote.NewRedisCache(cfg.RedisAddr)
		a.closers = append(a.closers, cache)
		quoter = quote.NewCachedQuoter(quoter, cache, cfg.CacheTTL, a.Log)
	}
	return quoter, lister
}

// Sessions returns the session issuer, keyed by SESSION_KEY or by a key
// generated once and kept next to the database.
func (a *App) Sessions() (*auth.Sessions, error) {
	if a.sessions != nil {
		return a.sessions, nil
	}

	key := a.Config.Session.Key
	if key == "" {
		var err error
		key, err = auth.LoadOrCreateKey(a.Config.Session.KeyPath)
		if err != nil {
			return nil, err
		}
	}

	s, err := auth.NewSessions(key, a.Config.Session.TTL)
	if err != nil {
		return nil, err
	}
	a.sessions = s
	return s, nil
}

// Close releases the database and the quote cache.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) saveToken(token string) error {
	path := a.Config.Session.TokenPath
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (a *App) clearToken() error {
	err := os.Remove(a.Config.Session.TokenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// errNotLoggedIn is returned when no session is stored or it no longer verifies.
var errNotLoggedIn = errors.New("not logged in, run `papertrade login` first")

// currentAccount returns the account ID of the stored session.
func (a *App) currentAccount() (string, error) {
	raw, err := os.ReadFile(a.Config.Session.TokenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	sessions, err := a.Sessions()
	if err != nil {
		return "", err
	}
	accountID, err := sessions.Verify(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNotLoggedIn, err)
	}
	return accountID, nil
}

// readPassword prompts for a password. On a terminal the input is not echoed;
// otherwise one line is read from In.
func (a *App) readPassword(prompt string) (string, error) {
	fmt.Fprint(a.Err, prompt)

	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Err)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// printMarkdown writes a report to Out, styled for the terminal unless Plain is set.
func (a *App) printMarkdown(md string) {
	if !a.Plain {
		styled, err := render.Terminal(md, a.Width)
		if err == nil {
			md = styled
		} else {
			a.Log.Debug().Err(err).Msg("Falling back to plain markdown")
		}
	}
	fmt.Fprint(a.Out, md)
}

// fail reports err on Err and returns the matching exit status.
func (a *App) fail(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error %s: %v\n", action, err)
	return subcommands.ExitFailure
}
