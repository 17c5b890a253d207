// Package shutdown provides graceful shutdown for Samus.
//
// Components register named hooks as they start; on SIGINT, SIGTERM or
// context cancellation the hooks run in reverse order under one shared
// timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("text server", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
