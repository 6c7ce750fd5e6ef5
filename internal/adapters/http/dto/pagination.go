package dto

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// PageRequest holds cursor pagination query parameters.
type PageRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor"`

	// Limit is the page size (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// PageLimit returns the limit with the default applied.
func (p PageRequest) PageLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return p.Limit
}

// After decodes the cursor. The zero Cursor means the first page.
// A cursor that cannot be decoded is a validation error.
func (p PageRequest) After() (domain.Cursor, error) {
	if p.Cursor == "" {
		return domain.Cursor{}, nil
	}

	return DecodeCursor(p.Cursor)
}

// Page is a page of items plus the cursor of the next one.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPage converts a repository page into its response form.
func NewPage[S, T any](page domain.Page[S], convert func(S) T) Page[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}

	out := Page[T]{Items: items, HasMore: page.Next != nil}
	if page.Next != nil {
		out.NextCursor = EncodeCursor(*page.Next)
	}

	return out
}

// cursorWire is the JSON form of a cursor before base64 encoding.
type cursorWire struct {
	CreatedAt int64  `json:"t"`
	ID        string `json:"id"`
}

// EncodeCursor encodes a cursor as URL-safe base64 JSON.
func EncodeCursor(c domain.Cursor) string {
	raw, err := json.Marshal(cursorWire{CreatedAt: c.CreatedAt.UnixNano(), ID: c.ID})
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(encoded string) (domain.Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return domain.Cursor{}, domain.NewValidationError("cursor", "is malformed")
	}

	var wire cursorWire
	if err := json.Unmarshal(raw, &wire); err != nil || wire.ID == "" {
		return domain.Cursor{}, domain.NewValidationError("cursor", "is malformed")
	}

	return domain.Cursor{CreatedAt: time.Unix(0, wire.CreatedAt).UTC(), ID: wire.ID}, nil
}
