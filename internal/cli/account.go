package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/render"
)

// signupCmd holds the flags for the 'signup' subcommand.
type signupCmd struct {
	app      *App
	password string
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account with the starting cash balance" }
func (*signupCmd) Usage() string {
	return `papertrade signup [-p <password>] <username>

  Creates an account and logs it in. Without -p the password is prompted for.
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "p", "", "password (prompted for when omitted)")
}

func (c *signupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	password := c.password
	if password == "" {
		if password, err = c.app.readPassword("Password: "); err != nil {
			return c.app.fail("signing up", err)
		}
	}

	account, err := svc.Account.Signup(ctx, f.Arg(0), password)
	if err != nil {
		return c.app.fail("signing up", err)
	}

	if status := c.app.startSession(account.ID); status != subcommands.ExitSuccess {
		return status
	}

	c.app.printMarkdown(render.Account(account))
	return subcommands.ExitSuccess
}

// loginCmd holds the flags for the 'login' subcommand.
type loginCmd struct {
	app      *App
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and remember the session" }
func (*loginCmd) Usage() string {
	return `papertrade login [-p <password>] <username>

  Checks the password and stores a session token for the following commands.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "p", "", "password (prompted for when omitted)")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	password := c.password
	if password == "" {
		if password, err = c.app.readPassword("Password: "); err != nil {
			return c.app.fail("logging in", err)
		}
	}

	account, err := svc.Account.Authenticate(ctx, f.Arg(0), password)
	if err != nil {
		return c.app.fail("logging in", err)
	}

	if status := c.app.startSession(account.ID); status != subcommands.ExitSuccess {
		return status
	}

	fmt.Fprintf(c.app.Out, "Logged in as %s\n", account.Username)
	return subcommands.ExitSuccess
}

// startSession issues and stores a session token for accountID.
func (a *App) startSession(accountID string) subcommands.ExitStatus {
	sessions, err := a.Sessions()
	if err != nil {
		return a.fail("starting session", err)
	}
	token, err := sessions.Issue(accountID)
	if err != nil {
		return a.fail("starting session", err)
	}
	if err := a.saveToken(token); err != nil {
		return a.fail("starting session", err)
	}
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "forget the stored session" }
func (*logoutCmd) Usage() string {
	return `papertrade logout
`
}

func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.clearToken(); err != nil {
		return c.app.fail("logging out", err)
	}
	fmt.Fprintln(c.app.Out, "Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct {
	app *App
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the logged in account" }
func (*whoamiCmd) Usage() string {
	return `papertrade whoami

  Shows the logged in account with its cash balance and net worth.
`
}

func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountID, err := c.app.currentAccount()
	if err != nil {
		return c.app.fail("reading session", err)
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	account, err := svc.Account.Get(ctx, accountID)
	if err != nil {
		return c.app.fail("loading account", err)
	}

	c.app.printMarkdown(render.Account(account))
	return subcommands.ExitSuccess
}
