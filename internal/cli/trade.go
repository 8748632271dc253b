package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/render"
)

// tradeCmd implements both 'buy' and 'sell'; kind selects which.
type tradeCmd struct {
	app  *App
	kind model.TradeKind
}

func (c *tradeCmd) Name() string { return string(c.kind) }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("%s shares at the current quote", c.kind)
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`papertrade %s <symbol> <quantity>

  Places a market order for the logged in account at the current quote.
`, c.kind)
}

func (*tradeCmd) SetFlags(*flag.FlagSet) {}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	quantity, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(c.app.Err, "Error parsing quantity %q: not a whole number\n", f.Arg(1))
		return subcommands.ExitUsageError
	}

	accountID, err := c.app.currentAccount()
	if err != nil {
		return c.app.fail("reading session", err)
	}

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	result, err := svc.Trade.PlaceOrder(ctx, accountID, f.Arg(0), c.kind, quantity)
	if err != nil {
		return c.app.fail("placing order", err)
	}

	c.app.printMarkdown(render.Trade(result))
	return subcommands.ExitSuccess
}
