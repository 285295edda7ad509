package llm

import "context"

// Suggester proposes related job search terms for a free-form query.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
}
