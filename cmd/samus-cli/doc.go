// Package main provides the entry point for samus-cli.
//
// samus-cli talks to a samus-server:
//
//	samus-cli get test_key
//	samus-cli set greeting hello --ttl 60
//	echo "GET test_key" | samus-cli exec
//	samus-cli shell
//	samus-cli status --socket /var/run/samus-server/samus-server.sock
//
// A request the server rejects exits with status 1.
package main
