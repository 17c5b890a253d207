package localserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/samus-go/internal/infra/buildinfo"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// Errors reported to local clients.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidLevel   = errors.New("invalid log level")
	ErrNoReload       = errors.New("reload not available")
)

// Status reports live server state.
type Status interface {
	// Keys returns the number of stored keys.
	Keys() int
	// ActiveConnections returns the number of open client connections.
	ActiveConnections() int64
}

// Handler executes local management commands.
type Handler struct {
	status  Status
	reload  func(context.Context) error
	started time.Time
}

// NewHandler creates a Handler. reload may be nil when the server runs
// without a configuration file.
func NewHandler(status Status, reload func(context.Context) error) *Handler {
	return &Handler{
		status:  status,
		reload:  reload,
		started: time.Now(),
	}
}

// Execute runs one command line and writes the response lines. The
// caller terminates the response.
func (h *Handler) Execute(ctx context.Context, w *bufio.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ErrUnknownCommand
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "status":
		return lineproto.WriteValue(w, h.statusLine())
	case "loglevel":
		return h.logLevel(w, args)
	case "reload":
		if h.reload == nil {
			return ErrNoReload
		}
		if err := h.reload(ctx); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
		return lineproto.WriteValue(w, "ok")
	default:
		return ErrUnknownCommand
	}
}

func (h *Handler) statusLine() string {
	return fmt.Sprintf("keys=%d connections=%d uptime=%s version=%s",
		h.status.Keys(),
		h.status.ActiveConnections(),
		time.Since(h.started).Truncate(time.Second),
		buildinfo.Version)
}

func (h *Handler) logLevel(w *bufio.Writer, args []string) error {
	if len(args) > 0 {
		if !logger.ValidLevel(args[0]) {
			return fmt.Errorf("%w: %s", ErrInvalidLevel, args[0])
		}
		logger.SetLevel(args[0])
	}
	return lineproto.WriteValue(w, logger.GetLevel())
}
