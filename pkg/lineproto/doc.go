// Package lineproto implements the Samus line protocol.
//
// Requests are single lines of whitespace-separated tokens:
//
//	GET <key>
//	SET <key> <value> <ttl>
//	DELETE <key>
//
// Each successful request produces one response line holding a value
// (possibly empty). The first failure produces "Error: <message>" and
// ends the exchange. Every response stream ends with the Sentinel token
// "__TERM__", written without a trailing newline.
//
// Keys and values are single tokens, so they never contain whitespace.
// They must not contain the sentinel either; FormatRequest enforces this
// on the client side.
//
// The package is shared by the server (parsing and framing) and by
// samus-cli (request encoding and response decoding).
package lineproto
