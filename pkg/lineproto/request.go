package lineproto

import (
	"strconv"
	"strings"

	"github.com/yndnr/samus-go/internal/core/domain"
)

// Action is a request keyword. Matching is exact and case-sensitive.
type Action string

// Supported actions.
const (
	ActionGet    Action = "GET"
	ActionSet    Action = "SET"
	ActionDelete Action = "DELETE"
)

// String returns the keyword.
func (a Action) String() string {
	return string(a)
}

// Request is a parsed request line.
type Request struct {
	Action Action
	Key    string
	// Value and TTL are only set for SET.
	Value string
	TTL   int64
}

// ParseRequest turns one request line (terminator already removed) into
// a Request. A trailing '\r' is tolerated. Tokens beyond the ones a
// command needs are ignored.
//
// Errors are domain errors: ErrInvalidAction for an empty line or an
// unknown keyword, ErrMissingArgument when a positional argument is
// absent and ErrUnparsableTTL when the SET ttl is not a signed 64-bit
// integer.
func ParseRequest(line string) (Request, error) {
	fields := strings.Fields(strings.TrimSuffix(line, "\r"))
	if len(fields) == 0 {
		return Request{}, domain.ErrInvalidAction
	}

	args := arguments(fields[1:])

	switch action := Action(fields[0]); action {
	case ActionGet, ActionDelete:
		key, err := args.at(0, "key")
		if err != nil {
			return Request{}, err
		}
		return Request{Action: action, Key: key}, nil

	case ActionSet:
		key, err := args.at(0, "key")
		if err != nil {
			return Request{}, err
		}
		value, err := args.at(1, "value")
		if err != nil {
			return Request{}, err
		}
		rawTTL, err := args.at(2, "ttl")
		if err != nil {
			return Request{}, err
		}
		ttl, err := strconv.ParseInt(rawTTL, 10, 64)
		if err != nil {
			return Request{}, domain.ErrUnparsableTTL.WithCause(err)
		}
		return Request{Action: action, Key: key, Value: value, TTL: ttl}, nil

	default:
		return Request{}, domain.ErrInvalidAction.WithDetails(fields[0])
	}
}

// arguments are the positional tokens after the keyword.
type arguments []string

// at returns the i-th argument, or ErrMissingArgument naming it.
func (a arguments) at(i int, name string) (string, error) {
	if i < 0 || i >= len(a) {
		return "", domain.ErrMissingArgument.WithDetails(name)
	}
	return a[i], nil
}

// FormatRequest encodes req as a request line including the trailing
// newline. Keys and values that would break framing are rejected.
func FormatRequest(req Request) (string, error) {
	if err := domain.ValidateKey(req.Key); err != nil {
		return "", err
	}

	switch req.Action {
	case ActionGet, ActionDelete:
		return string(req.Action) + " " + req.Key + "\n", nil
	case ActionSet:
		if err := domain.ValidateValue(req.Value); err != nil {
			return "", err
		}
		return "SET " + req.Key + " " + req.Value + " " + strconv.FormatInt(req.TTL, 10) + "\n", nil
	default:
		return "", domain.ErrInvalidAction.WithDetails(string(req.Action))
	}
}
