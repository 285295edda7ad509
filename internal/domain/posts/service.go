package posts

import (
	"context"
	"html"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/domain/slug"
	"jobboard/app/internal/platform/content"
	"jobboard/app/internal/platform/validate"
)

const (
	// MaxContentLength is the longest post body accepted, in characters.
	MaxContentLength = 10000

	defaultListLimit = 50
	maxListLimit     = 200
	// insertAttempts bounds retries when a concurrent writer claims the same slug first.
	insertAttempts = 3
)

// Service defines the posts feed operations.
type Service interface {
	Create(ctx context.Context, authorID uint, body string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*View, error)
	List(ctx context.Context, limit int) ([]View, error)
}

type service struct {
	repo      Repository
	assigner  *slug.Assigner
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// CreateInput is the validated shape of a new post.
type CreateInput struct {
	Content string `form:"content" validate:"notblank,max=10000"`
}

// NewService wires the posts service with its dependencies.
func NewService(repo Repository, assigner *slug.Assigner, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("posts repository is required")
	}
	if assigner == nil {
		return nil, eris.New("slug assigner is required")
	}

	return &service{
		repo:      repo,
		assigner:  assigner,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

func (s *service) Create(ctx context.Context, authorID uint, body string) (*Post, error) {
	input := CreateInput{Content: strings.TrimSpace(body)}
	if err := validate.Struct(input); err != nil {
		return nil, eris.Wrap(err, "validating post")
	}

	post := &Post{AuthorID: authorID, Content: input.Content}

	var lastErr error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		post.Slug = ""
		if err := s.assigner.Assign(ctx, post); err != nil {
			s.recordError(logrus.Fields{"author_id": authorID}, err, "assigning post slug")
			return nil, eris.Wrap(err, "assigning post slug")
		}

		err := s.repo.Create(ctx, post)
		if err == nil {
			return post, nil
		}

		if !eris.Is(err, ErrDuplicateSlug) {
			s.recordError(logrus.Fields{"slug": post.Slug}, err, "persisting post")
			return nil, eris.Wrapf(err, "persisting post: %s", post.Slug)
		}

		lastErr = err
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"slug":    post.Slug,
				"attempt": attempt,
			}).Warn("post slug claimed concurrently, retrying")
		}
	}

	post.Slug = ""
	s.recordError(logrus.Fields{"author_id": authorID}, lastErr, "persisting post after slug retries")
	return nil, eris.Wrapf(lastErr, "persisting post after %d attempts", insertAttempts)
}

func (s *service) GetBySlug(ctx context.Context, value string) (*View, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !slug.Valid(trimmed) {
		return nil, eris.Wrapf(ErrPostNotFound, "invalid slug: %q", value)
	}

	post, err := s.repo.GetBySlug(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"slug": trimmed}, err, "retrieving post")
		return nil, eris.Wrapf(err, "retrieving post: %s", trimmed)
	}

	if post == nil {
		return nil, eris.Wrapf(ErrPostNotFound, "slug: %s", trimmed)
	}

	return s.view(*post), nil
}

func (s *service) List(ctx context.Context, limit int) ([]View, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	posts, err := s.repo.List(ctx, limit)
	if err != nil {
		s.recordError(nil, err, "listing posts")
		return nil, eris.Wrap(err, "listing posts")
	}

	views := make([]View, 0, len(posts))
	for _, post := range posts {
		views = append(views, *s.view(post))
	}

	return views, nil
}

func (s *service) view(post Post) *View {
	rendered, err := content.Render(post.Content)
	if err != nil {
		s.recordError(logrus.Fields{"slug": post.Slug}, err, "rendering post markdown")
		rendered = "<p>" + html.EscapeString(post.Content) + "</p>"
	}

	return &View{
		Post:    post,
		HTML:    rendered,
		Excerpt: content.Excerpt(rendered, content.DefaultExcerptLength),
	}
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
