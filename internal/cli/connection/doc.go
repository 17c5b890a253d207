// Package connection provides the transports used by samus-cli.
//
//   - TextClient: one line-protocol exchange per TCP connection
//   - Session: a long-lived TCP connection for interactive use
//   - SocketClient: commands to the local admin Unix socket
package connection
