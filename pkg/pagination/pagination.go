package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the client does not send one.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single page can request.
	MaxLimit = 100
)

// Params carries the client's paging inputs. A blank Cursor means the first
// page.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the keyset position of the last row the client has seen. Pages
// walk (created_at, id) descending, so the tuple is enough to resume without
// offsets.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps the requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer adds one sentinel row so the query can tell whether a next
// page exists without a second count.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	payload := c.CreatedAt.UTC().Format(time.RFC3339Nano) + " " + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a client token. A blank token yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	createdRaw, idRaw, found := strings.Cut(string(decoded), " ")
	if !found {
		return nil, fmt.Errorf("malformed cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}

	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
