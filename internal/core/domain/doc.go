// Package domain defines the core domain models for Samus.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Entry: a stored value together with its TTL attribute
//   - Errors: domain error taxonomy shared by the store, the protocol
//     parser and the connection handler
//
// The TTL attribute is recorded with every entry but is not enforced
// as an expiry anywhere in the system.
package domain
