package command

import (
	"bufio"
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/samus-go/internal/cli/connection"
	"github.com/yndnr/samus-go/internal/cli/output"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read the value stored under KEY",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "KEY"); err != nil {
				return err
			}
			return doRequest(c, lineproto.Request{Action: lineproto.ActionGet, Key: c.Args().Get(0)})
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store VALUE under KEY",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "ttl",
				Usage: "Time-to-live stored with the entry (not enforced by the server)",
			},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "KEY VALUE"); err != nil {
				return err
			}
			return doRequest(c, lineproto.Request{
				Action: lineproto.ActionSet,
				Key:    c.Args().Get(0),
				Value:  c.Args().Get(1),
				TTL:    c.Int64("ttl"),
			})
		},
	}
}

// DeleteCommand returns the delete command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"del"},
		Usage:     "Remove KEY and print its previous value",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "KEY"); err != nil {
				return err
			}
			return doRequest(c, lineproto.Request{Action: lineproto.ActionDelete, Key: c.Args().Get(0)})
		},
	}
}

// ExecCommand returns the exec command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:  "exec",
		Usage: "Send request lines from stdin over one connection",
		Description: "Each stdin line is sent verbatim. Processing stops at the first\n" +
			"failed request, as the server does.",
		Action: execAction,
	}
}

func doRequest(c *cli.Context, req lineproto.Request) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	line, err := lineproto.FormatRequest(req)
	if err != nil {
		return err
	}
	line = strings.TrimSuffix(line, "\n")

	client := connection.NewTextClient(flags.Server, flags.Timeout)
	value, err := client.Do(c.Context, req)

	result := output.Result{Request: line, Value: value}
	var se *connection.ServerError
	switch {
	case errors.As(err, &se):
		result.Error = se.Message
	case err != nil:
		return err
	}
	return renderResults(c, flags.Output, []output.Result{result})
}

func execAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(c.App.Reader)
	scanner.Buffer(make([]byte, 0, 4096), lineproto.MaxLineLen+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	client := connection.NewTextClient(flags.Server, flags.Timeout)
	resp, err := client.Exchange(c.Context, lines)
	if err != nil {
		return err
	}
	return renderResults(c, flags.Output, pairResults(lines, resp))
}

// pairResults matches response lines to the requests that produced
// them. Requests after a failure were never processed and are dropped.
func pairResults(lines []string, resp *lineproto.Response) []output.Result {
	results := make([]output.Result, 0, len(resp.Values)+1)
	for i, v := range resp.Values {
		results = append(results, output.Result{Request: requestAt(lines, i), Value: v})
	}
	if resp.Failed() {
		results = append(results, output.Result{Request: requestAt(lines, len(resp.Values)), Error: resp.Err})
	}
	return results
}

func requestAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
