package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/render"
	"github.com/ndewijer/papertrade/internal/service"
)

type portfolioCmd struct {
	app *App
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display holdings valued at current quotes" }
func (*portfolioCmd) Usage() string {
	return `papertrade portfolio

  Displays the holdings of the logged in account with live prices and
  unrealized profit or loss. Symbols without a quote are valued at 0.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountID, err := c.app.currentAccount()
	if err != nil {
		return c.app.fail("reading session", err)
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	view, err := svc.Portfolio.View(ctx, accountID)
	if err != nil {
		return c.app.fail("loading portfolio", err)
	}

	c.app.printMarkdown(render.Portfolio(view))
	return subcommands.ExitSuccess
}

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	app   *App
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display executed trades, newest first" }
func (*historyCmd) Usage() string {
	return `papertrade history [-n <count>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "show at most n trades (0 shows all)")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountID, err := c.app.currentAccount()
	if err != nil {
		return c.app.fail("reading session", err)
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	transactions, err := svc.Transaction.History(ctx, accountID, c.limit)
	if err != nil {
		return c.app.fail("loading history", err)
	}

	c.app.printMarkdown(render.History(transactions))
	return subcommands.ExitSuccess
}

// leaderboardCmd holds the flags for the 'leaderboard' subcommand.
type leaderboardCmd struct {
	app   *App
	limit int
}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "rank accounts by net worth" }
func (*leaderboardCmd) Usage() string {
	return `papertrade leaderboard [-n <count>]

  Ranks accounts by cash plus holdings at cost. No login required.
`
}

func (c *leaderboardCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", service.DefaultLeaderboardSize, "number of accounts to show")
}

func (c *leaderboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	entries, err := svc.Leaderboard.Top(ctx, c.limit)
	if err != nil {
		return c.app.fail("loading leaderboard", err)
	}

	c.app.printMarkdown(render.Leaderboard(entries))
	return subcommands.ExitSuccess
}
