package http

import (
	"context"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/domain/accounts"
	"jobboard/app/internal/platform/validate"
	"jobboard/app/internal/presentation/http/templates"
)

type loginPageInput struct {
	Next   string `query:"next"`
	Notice string `query:"notice"`
}

func (s *Server) registerAuthRoutes() {
	huma.Get(s.api, "/register", s.registerFormHandler, htmlOperation("Registration form"))
	huma.Post(s.api, "/register", s.registerHandler, htmlOperation(
		"Register account",
		stdhttp.StatusSeeOther,
		stdhttp.StatusConflict,
		stdhttp.StatusUnprocessableEntity,
	))

	huma.Get(s.api, "/login", s.loginFormHandler, htmlOperation("Login form"))
	huma.Post(s.api, "/login", s.loginHandler, htmlOperation(
		"Log in",
		stdhttp.StatusSeeOther,
		stdhttp.StatusUnauthorized,
	))

	huma.Post(s.api, "/logout", s.logoutHandler, htmlOperation(
		"Log out",
		stdhttp.StatusSeeOther,
	))
}

func (s *Server) registerFormHandler(ctx context.Context, input *noticeInput) (*htmlResponse, error) {
	return s.renderRegister(ctx, stdhttp.StatusOK, templates.RegisterData{}, input.Notice)
}

func (s *Server) registerHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	registration := accounts.RegisterInput{
		Email:    formValue(&input.RawBody, "email"),
		Name:     formValue(&input.RawBody, "name"),
		Password: formValue(&input.RawBody, "password"),
	}
	data := templates.RegisterData{Email: registration.Email, Name: registration.Name}

	user, err := s.accounts.Register(ctx, registration)
	if err != nil {
		switch {
		case validate.IsValidation(err):
			data.Errors = validate.Fields(err)
			return s.renderRegister(ctx, stdhttp.StatusUnprocessableEntity, data, "")
		case eris.Is(err, accounts.ErrEmailTaken):
			_, data.Error = classifyError(err)
			return s.renderRegister(ctx, stdhttp.StatusConflict, data, "")
		default:
			return s.handleError(ctx, err, "registering account", nil)
		}
	}

	return s.startSession(ctx, user, withNotice("/jobs", noticeRegistered))
}

func (s *Server) loginFormHandler(ctx context.Context, input *loginPageInput) (*htmlResponse, error) {
	data := templates.LoginData{Next: safeRedirect(input.Next, "")}
	return s.renderLogin(ctx, stdhttp.StatusOK, data, input.Notice)
}

func (s *Server) loginHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	email := formValue(&input.RawBody, "email")
	next := safeRedirect(formValue(&input.RawBody, "next"), "")

	user, err := s.accounts.Authenticate(ctx, email, formValue(&input.RawBody, "password"))
	if err != nil {
		if eris.Is(err, accounts.ErrInvalidCredentials) {
			data := templates.LoginData{Email: strings.TrimSpace(email), Next: next}
			_, data.Error = classifyError(err)
			return s.renderLogin(ctx, stdhttp.StatusUnauthorized, data, "")
		}
		return s.handleError(ctx, err, "authenticating", nil)
	}

	return s.startSession(ctx, user, withNotice(safeRedirect(next, "/jobs"), noticeLoggedIn))
}

func (s *Server) logoutHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	if token := sessionTokenFromContext(ctx); token != "" {
		if err := s.accounts.DeleteSession(ctx, token); err != nil {
			s.recordError(ctx, err, "deleting session", nil)
		}
	}

	resp := redirectResponse(stdhttp.StatusSeeOther, withNotice("/jobs", noticeLoggedOut))
	resp.SetCookie = s.clearSessionCookie()
	return resp, nil
}

func (s *Server) startSession(ctx context.Context, user *accounts.User, location string) (*htmlResponse, error) {
	session, err := s.accounts.CreateSession(ctx, user.ID)
	if err != nil {
		return s.handleError(ctx, err, "creating session", logrus.Fields{"user_id": user.ID})
	}

	resp := redirectResponse(stdhttp.StatusSeeOther, location)
	resp.SetCookie = s.sessionCookie(session.Token, session.ExpiresAt)
	return resp, nil
}

func (s *Server) renderRegister(ctx context.Context, status int, data templates.RegisterData, notice string) (*htmlResponse, error) {
	return s.renderPage(ctx, status, templates.RegisterPage(s.pageFor(ctx, "Register", notice), data), "registration form")
}

func (s *Server) renderLogin(ctx context.Context, status int, data templates.LoginData, notice string) (*htmlResponse, error) {
	return s.renderPage(ctx, status, templates.LoginPage(s.pageFor(ctx, "Log in", notice), data), "login form")
}
