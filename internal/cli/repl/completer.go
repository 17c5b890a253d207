package repl

import (
	"strings"

	"github.com/yndnr/samus-go/pkg/lineproto"
)

// Completer suggests request keywords and shell commands.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			lineproto.ActionGet.String(), lineproto.ActionSet.String(), lineproto.ActionDelete.String(),
			"help", "history", "exit", "quit",
		},
	}
}

// Complete returns the commands starting with prefix, ignoring case.
// Keywords are matched case-sensitively by the server, so "get" suggests
// "GET".
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
