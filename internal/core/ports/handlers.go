package ports

import (
	"context"

	"confbot/internal/core/domain"
)

// CommandRouter is the boundary the transport feeds inbound messages into.
// Every message carries the trusted identity assigned by the transport and
// the raw text; the reply is plain text.
type CommandRouter interface {
	Route(ctx context.Context, identity domain.Identity, text string) (string, error)
}
