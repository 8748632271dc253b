package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/database"
)

type migrateCmd struct {
	app *App
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or upgrade the ledger database" }
func (*migrateCmd) Usage() string {
	return `papertrade migrate

  Applies pending schema migrations to DB_PATH. Every other command does this
  on start, so running it by hand is only needed to prepare a database.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := c.app.Services(ctx); err != nil {
		return c.app.fail("migrating ledger", err)
	}

	version, err := database.SchemaVersion(ctx, c.app.db)
	if err != nil {
		return c.app.fail("reading schema version", err)
	}

	fmt.Fprintf(c.app.Out, "Ledger %s at schema version %d\n", c.app.Config.Database.Path, version)
	return subcommands.ExitSuccess
}
