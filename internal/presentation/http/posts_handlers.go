package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/platform/validate"
	"jobboard/app/internal/presentation/http/templates"
)

const postsPageLimit = 50

type postSlugInput struct {
	Slug   string `path:"slug"`
	Notice string `query:"notice"`
}

func (s *Server) registerPostRoutes() {
	huma.Get(s.api, "/posts", s.listPostsHandler, htmlOperation(
		"List posts",
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/posts/new", s.newPostFormHandler, htmlOperation(
		"Post form",
		stdhttp.StatusFound,
	))
	huma.Post(s.api, "/posts/new", s.createPostHandler, htmlOperation(
		"Publish post",
		stdhttp.StatusSeeOther,
		stdhttp.StatusUnprocessableEntity,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/posts/{slug}", s.postHandler, htmlOperation(
		"Show post",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) listPostsHandler(ctx context.Context, input *noticeInput) (*htmlResponse, error) {
	views, err := s.posts.List(ctx, postsPageLimit)
	if err != nil {
		return s.handleError(ctx, err, "listing posts", nil)
	}

	data := templates.PostListData{
		Posts:     make([]templates.PostCard, 0, len(views)),
		CanCreate: UserFromContext(ctx) != nil,
	}
	for _, view := range views {
		data.Posts = append(data.Posts, templates.PostCard{
			URL:     "/posts/" + view.Slug,
			Excerpt: view.Excerpt,
			Posted:  formatDate(view.CreatedAt),
		})
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.PostListPage(s.pageFor(ctx, "Posts", input.Notice), data), "post list")
}

func (s *Server) newPostFormHandler(ctx context.Context, input *noticeInput) (*htmlResponse, error) {
	if UserFromContext(ctx) == nil {
		return redirectResponse(stdhttp.StatusFound, loginURL("/posts/new")), nil
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.PostFormPage(s.pageFor(ctx, "New post", input.Notice), templates.PostFormData{}), "post form")
}

func (s *Server) createPostHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	user := UserFromContext(ctx)
	if user == nil {
		return redirectResponse(stdhttp.StatusSeeOther, loginURL("/posts/new")), nil
	}

	body := formValue(&input.RawBody, "content")

	post, err := s.posts.Create(ctx, user.ID, body)
	if err != nil {
		if validate.IsValidation(err) {
			data := templates.PostFormData{Content: body, Errors: validate.Fields(err)}
			return s.renderPage(ctx, stdhttp.StatusUnprocessableEntity, templates.PostFormPage(s.pageFor(ctx, "New post", ""), data), "post form")
		}
		return s.handleError(ctx, err, "creating post", logrus.Fields{"author_id": user.ID})
	}

	return redirectResponse(stdhttp.StatusSeeOther, withNotice("/posts/"+post.Slug, noticePostCreated)), nil
}

func (s *Server) postHandler(ctx context.Context, input *postSlugInput) (*htmlResponse, error) {
	view, err := s.posts.GetBySlug(ctx, input.Slug)
	if err != nil {
		return s.handleError(ctx, err, "loading post", logrus.Fields{"slug": input.Slug})
	}

	data := templates.PostData{
		HTML:   view.HTML,
		Slug:   view.Slug,
		Posted: formatDate(view.CreatedAt),
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.PostPage(s.pageFor(ctx, view.Slug, input.Notice), data), "post")
}
