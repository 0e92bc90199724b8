package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
)

type newCmd struct {
	name string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a new portfolio" }
func (*newCmd) Usage() string {
	return `csvpt new -n <name>

  Creates an empty portfolio trade log with its CSV header. Refuses to
  overwrite an existing portfolio.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Name of the portfolio to create.")
}

func (c *newCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -n <name> is required.")
		return subcommands.ExitUsageError
	}
	settings, err := LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	path := portfolioPath(settings, c.name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			fmt.Fprintf(os.Stderr, "Error: portfolio %q already exists at %s\n", c.name, path)
		} else {
			fmt.Fprintf(os.Stderr, "Error creating portfolio file %q: %v\n", path, err)
		}
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := cryptofolio.EncodeHeader(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header to %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created portfolio %q at %s\n", c.name, path)
	return subcommands.ExitSuccess
}
