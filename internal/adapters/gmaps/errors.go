package gmaps

import (
	"context"
	"errors"
	"strings"

	"maps-extended-service/internal/domain"
)

// toRequestError maps a client error onto a RequestError. The client reports
// service failures as "maps: STATUS - message"; anything else (transport
// failures, decode errors) is reported as UNKNOWN_ERROR.
func toRequestError(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if rest, ok := strings.CutPrefix(err.Error(), "maps: "); ok {
		code, msg, _ := strings.Cut(rest, " - ")
		if isStatusCode(code) {
			return domain.NewRequestError(endpoint, code, strings.TrimSpace(msg), err)
		}
	}
	return domain.NewRequestError(endpoint, domain.StatusUnknownError, err.Error(), err)
}

func isStatusCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}
