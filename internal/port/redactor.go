package port

import "context"

// Redactor masks sensitive spans in extracted text. The masked variant is an
// alternate detection input only; it never alters graph structure.
type Redactor interface {
	Redact(ctx context.Context, text string) (string, error)
}
