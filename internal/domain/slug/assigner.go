package slug

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// DefaultMaxAttempts bounds the number of uniqueness checks performed for one record.
const DefaultMaxAttempts = 10

// ErrExhausted is returned when no unique slug was found within the attempt budget.
var ErrExhausted = eris.New("slug generation exhausted")

// Checker reports whether a slug is already taken by a persisted record of one kind.
type Checker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context, slug string) (bool, error)

// SlugExists calls f(ctx, slug).
func (f CheckerFunc) SlugExists(ctx context.Context, slug string) (bool, error) {
	return f(ctx, slug)
}

// Record is an entity that receives a slug derived from its content before first persistence.
type Record interface {
	SlugValue() string
	SetSlug(slug string)
	SlugSource() string
}

// AssignerOptions configures an Assigner.
type AssignerOptions struct {
	Checker     Checker
	MaxAttempts int
	// Fallback is used as the base when the content normalises to an empty string.
	Fallback string
	Logger   *logrus.Logger
	// Reserved slugs are treated as taken, e.g. route segments that share the slug's path.
	Reserved []string
	// Suffix overrides the random suffix source. Used by tests.
	Suffix func() string
}

// Assigner computes unique slugs against a single record kind.
type Assigner struct {
	checker     Checker
	maxAttempts int
	fallback    string
	logger      *logrus.Logger
	reserved    map[string]struct{}
	suffix      func() string
}

// NewAssigner constructs an Assigner bound to the provided uniqueness checker.
func NewAssigner(opts AssignerOptions) (*Assigner, error) {
	if opts.Checker == nil {
		return nil, eris.New("slug checker is required")
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	fallback := Normalize(opts.Fallback)
	if fallback == "" {
		fallback = "item"
	}

	suffix := opts.Suffix
	if suffix == nil {
		suffix = randomSuffix
	}

	reserved := make(map[string]struct{}, len(opts.Reserved))
	for _, value := range opts.Reserved {
		if normalized := Normalize(value); normalized != "" {
			reserved[normalized] = struct{}{}
		}
	}

	return &Assigner{
		checker:     opts.Checker,
		maxAttempts: maxAttempts,
		fallback:    fallback,
		logger:      opts.Logger,
		reserved:    reserved,
		suffix:      suffix,
	}, nil
}

// Assign sets a unique slug on record unless it already carries one.
func (a *Assigner) Assign(ctx context.Context, record Record) error {
	if record == nil {
		return eris.New("record is nil")
	}

	if strings.TrimSpace(record.SlugValue()) != "" {
		return nil
	}

	value, err := a.Generate(ctx, record.SlugSource())
	if err != nil {
		return err
	}

	record.SetSlug(value)
	return nil
}

// Generate returns the first candidate derived from content that the checker reports as free.
func (a *Assigner) Generate(ctx context.Context, content string) (string, error) {
	base := Base(content)
	if base == "" {
		base = a.fallback
	}

	candidate := base
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "generating slug")
		}

		_, taken := a.reserved[candidate]
		if !taken {
			exists, err := a.checker.SlugExists(ctx, candidate)
			if err != nil {
				return "", eris.Wrapf(err, "checking slug collision: %s", candidate)
			}
			taken = exists
		}

		if !taken {
			return candidate, nil
		}

		if a.logger != nil {
			a.logger.WithFields(logrus.Fields{
				"slug":    candidate,
				"attempt": attempt,
			}).Debug("slug collision")
		}

		candidate = base + Separator + a.suffix()
	}

	return "", eris.Wrapf(ErrExhausted, "no unique slug for base %s after %d attempts", base, a.maxAttempts)
}

// MaxAttempts returns the configured attempt budget.
func (a *Assigner) MaxAttempts() int {
	return a.maxAttempts
}

func randomSuffix() string {
	buf := make([]byte, SuffixLength)
	for i := range buf {
		buf[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(buf)
}
