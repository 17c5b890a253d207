package command

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/samus-go/internal/cli/connection"
	"github.com/yndnr/samus-go/internal/cli/output"
	"github.com/yndnr/samus-go/internal/cli/repl"
	"github.com/yndnr/samus-go/internal/infra/buildinfo"
	"github.com/yndnr/samus-go/internal/server/config"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "File to keep command history in",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	client := connection.NewTextClient(flags.Server, flags.Timeout)
	connect := func() (repl.Session, error) {
		return client.OpenSession(c.Context)
	}

	history := repl.NewHistory(preference(c, "history-file"))
	if err := history.Load(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
		}
	}()

	fmt.Fprintf(c.App.Writer, "Connected to %s. Type 'help' for commands.\n", client.Addr())
	return repl.New(connect, c.App.Reader, c.App.Writer, history).Run()
}

func socketFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "socket",
		Usage:   "Path of the server admin socket",
		EnvVars: []string{"SAMUS_SOCKET"},
		Value:   config.DefaultLocalSocket,
	}
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server status over the admin socket",
		Flags:  []cli.Flag{socketFlag()},
		Action: statusAction,
	}
}

// StatusInfo is the parsed status reply.
type StatusInfo struct {
	Keys        string `json:"keys" yaml:"keys"`
	Connections string `json:"connections" yaml:"connections"`
	Uptime      string `json:"uptime" yaml:"uptime"`
	Version     string `json:"version" yaml:"version"`
}

func statusAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	lines, err := adminExecute(c, flags, "status")
	if err != nil {
		return err
	}
	if flags.Output == output.FormatRaw {
		return render(c, flags.Output, lines)
	}
	return render(c, flags.Output, parseStatus(lines))
}

// parseStatus reads the key=value pairs of a status reply.
func parseStatus(lines []string) StatusInfo {
	var info StatusInfo
	for _, line := range lines {
		for _, field := range strings.Fields(line) {
			k, v, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			switch k {
			case "keys":
				info.Keys = v
			case "connections":
				info.Connections = v
			case "uptime":
				info.Uptime = v
			case "version":
				info.Version = v
			}
		}
	}
	return info
}

// LogLevelCommand returns the loglevel command.
func LogLevelCommand() *cli.Command {
	return &cli.Command{
		Name:      "loglevel",
		Usage:     "Show or change the server log level",
		ArgsUsage: "[LEVEL]",
		Flags:     []cli.Flag{socketFlag()},
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			cmd := "loglevel"
			if c.NArg() > 0 {
				cmd += " " + c.Args().First()
			}
			lines, err := adminExecute(c, flags, cmd)
			if err != nil {
				return err
			}
			return render(c, output.FormatRaw, lines)
		},
	}
}

func adminExecute(c *cli.Context, flags *GlobalFlags, cmd string) ([]string, error) {
	path := preference(c, "socket")
	client := connection.NewSocketClient(path, flags.Timeout)
	lines, err := client.Execute(c.Context, cmd)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("admin socket %s not found (is the server running with server.local.enabled?)", path)
		}
		return nil, err
	}
	return lines, nil
}

// ReloadCommand returns the reload command.
func ReloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "reload",
		Usage: "Ask the server to re-read its configuration file",
		Flags: []cli.Flag{socketFlag()},
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			lines, err := adminExecute(c, flags, "reload")
			if err != nil {
				return err
			}
			return render(c, output.FormatRaw, lines)
		},
	}
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print client build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			if flags.Output == output.FormatRaw {
				return render(c, flags.Output, buildinfo.String())
			}
			return render(c, flags.Output, buildinfo.Get())
		},
	}
}
