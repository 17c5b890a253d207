// Package repl provides the interactive shell of samus-cli.
//
// Each input line is checked locally, then sent as one request over a
// persistent connection and its response line printed. Since the server
// ends the connection after an error, the shell reconnects on the next
// request.
package repl
