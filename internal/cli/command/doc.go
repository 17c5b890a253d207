// Package command defines the samus-cli commands.
//
// It uses urfave/cli/v2. Data commands (get, set, delete, exec, shell)
// talk the line protocol over TCP; status and loglevel use the local
// admin socket.
package command
