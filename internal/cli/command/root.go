package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/samus-go/internal/cli/config"
	"github.com/yndnr/samus-go/internal/cli/connection"
	"github.com/yndnr/samus-go/internal/cli/output"
	"github.com/yndnr/samus-go/internal/infra/buildinfo"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// DefaultServer is the address used when --server is not given.
const DefaultServer = "127.0.0.1:6666"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "samus-cli",
		Usage:                "Samus key-value store client",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Before:               applyPreferences,
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			DeleteCommand(),
			ExecCommand(),
			ShellCommand(),
			StatusCommand(),
			LogLevelCommand(),
			ReloadCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Samus server address (host:port)",
			EnvVars: []string{"SAMUS_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: raw, table, json, yaml",
			EnvVars: []string{"SAMUS_OUTPUT"},
			Value:   string(output.FormatRaw),
		},
		&cli.StringFlag{
			Name:    "cli-config",
			Usage:   "CLI preferences file (empty to ignore)",
			EnvVars: []string{"SAMUS_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for one exchange with the server",
			Value: connection.DefaultTimeout,
		},
	}
}

const preferencesKey = "preferences"

// applyPreferences fills global flags the user did not set from the CLI
// preferences file. Command flags are resolved later by preference.
func applyPreferences(c *cli.Context) error {
	prefs, err := config.Load(c.String("cli-config"))
	if err != nil {
		return err
	}
	values := prefs.Values()
	for _, name := range []string{"server", "output", "timeout"} {
		v, ok := values[name]
		if !ok || c.IsSet(name) {
			continue
		}
		if err := c.Set(name, v); err != nil {
			return fmt.Errorf("apply %s from %s: %w", name, c.String("cli-config"), err)
		}
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[preferencesKey] = values
	return nil
}

// preference returns the value of a command flag, falling back to the
// preferences file when the flag was not given.
func preference(c *cli.Context, name string) string {
	if !c.IsSet(name) {
		if values, ok := c.App.Metadata[preferencesKey].(map[string]string); ok {
			if v, ok := values[name]; ok {
				return v
			}
		}
	}
	return c.String(name)
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
}

// ParseGlobalFlags extracts and validates global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:  c.String("server"),
		Output:  format,
		Timeout: c.Duration("timeout"),
	}, nil
}

// render writes data in the selected format.
func render(c *cli.Context, format output.Format, data any) error {
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// renderResults prints results and turns a server-reported failure into
// a non-zero exit. In raw mode the error line goes to stderr.
func renderResults(c *cli.Context, format output.Format, results []output.Result) error {
	var failed *output.Result
	if n := len(results); n > 0 && results[n-1].Failed() {
		failed = &results[n-1]
	}

	if format == output.FormatRaw && failed != nil {
		if err := render(c, format, results[:len(results)-1]); err != nil {
			return err
		}
		return cli.Exit(lineproto.ErrorPrefix+failed.Error, 1)
	}

	var data any = results
	if len(results) == 1 {
		data = results[0]
	}
	if err := render(c, format, data); err != nil {
		return err
	}
	if failed != nil {
		return cli.Exit("", 1)
	}
	return nil
}

// requireArgs checks the positional argument count.
func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return fmt.Errorf("usage: %s %s", c.Command.FullName(), usage)
	}
	return nil
}
