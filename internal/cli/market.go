package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/render"
	"github.com/ndewijer/papertrade/internal/service"
)

type quoteCmd struct {
	app *App
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "look up the current price of symbols" }
func (*quoteCmd) Usage() string {
	return `papertrade quote <symbol>...
`
}

func (*quoteCmd) SetFlags(*flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	status := subcommands.ExitSuccess
	for _, symbol := range f.Args() {
		listing, err := svc.Market.Quote(ctx, symbol)
		if err != nil {
			status = c.app.fail("fetching quote", err)
			continue
		}
		c.app.printMarkdown(render.Quote(listing))
	}
	return status
}

// marketCmd holds the flags for the 'market' subcommand.
type marketCmd struct {
	app      *App
	exchange string
	limit    int
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list priced symbols of an exchange" }
func (*marketCmd) Usage() string {
	return `papertrade market [-e <exchange>] [-n <count>]

  Prices the first symbols listed on an exchange. Requires the finnhub provider.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "e", "US", "exchange code")
	f.IntVar(&c.limit, "n", service.DefaultListingSize, "number of symbols to price")
}

func (c *marketCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	listings, err := svc.Market.Listings(ctx, c.exchange, c.limit)
	if err != nil {
		return c.app.fail("listing market", err)
	}

	c.app.printMarkdown(render.Listings(c.exchange, listings))
	return subcommands.ExitSuccess
}
