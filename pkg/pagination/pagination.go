package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services. The
// zero value asks for the whole collection.
type Params struct {
	Limit  int
	Cursor string
}

// Paged reports whether the caller asked for a page rather than everything.
func (p Params) Paged() bool {
	return p.Limit > 0 || strings.TrimSpace(p.Cursor) != ""
}

// Cursor is the position of the last row on a page: its sort timestamp and
// its id as a tie breaker.
type Cursor struct {
	At time.Time
	ID string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.At.UTC().Format(time.RFC3339Nano), cursor.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components. An empty
// value yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	return &Cursor{At: t.UTC(), ID: parts[1]}, nil
}

// Trim cuts a buffered result down to the page size and returns the rows
// that belong on the page and whether another page follows.
func Trim[T any](rows []T, limit int) ([]T, bool) {
	size := NormalizeLimit(limit)
	if len(rows) <= size {
		return rows, false
	}
	return rows[:size], true
}
