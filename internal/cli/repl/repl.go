package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/samus-go/internal/cli/connection"
	"github.com/yndnr/samus-go/internal/core/domain"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// Prompt is printed before each input line.
const Prompt = "samus> "

// Session sends request lines over one server connection.
type Session interface {
	Send(line string) (string, error)
	Close() error
}

// Connector opens a new Session.
type Connector func() (Session, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	connect   Connector
	session   Session
	completer *Completer
	history   *History
}

// New creates a new REPL. The connection is opened on the first request
// and reopened after the server ends it.
func New(connect Connector, input io.Reader, output io.Writer, history *History) *REPL {
	return &REPL{
		input:     input,
		output:    output,
		connect:   connect,
		completer: NewCompleter(),
		history:   history,
	}
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input.
func (r *REPL) Run() error {
	defer r.disconnect()
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		case "history":
			for i, entry := range r.history.Entries() {
				fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
			}
			continue
		}

		r.execute(line)
	}
}

// execute validates the line locally before sending it: a request the
// server would reject ends the connection.
func (r *REPL) execute(line string) {
	if _, err := lineproto.ParseRequest(line); err != nil {
		fmt.Fprintln(r.output, lineproto.ErrorPrefix+domain.ClientMessage(err))
		if first, _, _ := strings.Cut(line, " "); domain.IsDomainError(err, domain.ErrInvalidAction.Code) {
			if s := r.completer.Complete(first); len(s) > 0 {
				fmt.Fprintf(r.output, "Did you mean: %s\n", strings.Join(s, ", "))
			}
		}
		return
	}

	if r.session == nil {
		s, err := r.connect()
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			return
		}
		r.session = s
	}

	value, err := r.session.Send(line)
	if err != nil {
		var se *connection.ServerError
		if errors.As(err, &se) {
			fmt.Fprintln(r.output, lineproto.ErrorPrefix+se.Message)
		} else {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
		// The server closes the stream after any error.
		r.disconnect()
		return
	}
	fmt.Fprintln(r.output, value)
}

func (r *REPL) disconnect() {
	if r.session != nil {
		_ = r.session.Close()
		r.session = nil
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `Requests:
  GET <key>
  SET <key> <value> <ttl>
  DELETE <key>
Commands:
  help, history, exit, quit
`)
}
