// Package config provides the samus-cli preferences file.
//
// The file (~/.samus/cli.yaml by default) holds defaults for the global
// flags:
//
//	server: 127.0.0.1:6666
//	output: table
//	timeout: 5s
//	socket: /var/run/samus-server/samus-server.sock
//	history_file: ~/.samus/history
//
// Flags and environment variables always win over the file.
package config
