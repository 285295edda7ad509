package http

import (
	"mime/multipart"
	stdhttp "net/http"
	"strings"
	"time"
)

const sessionCookieName = "jobboard_session"

// formInput receives a multipart/form-data POST body.
type formInput struct {
	RawBody multipart.Form
}

// formValue returns the first value submitted for key.
func formValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// formFile returns the first file submitted for key, or nil.
func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File[key]
	if len(files) == 0 || files[0] == nil {
		return nil
	}
	return files[0]
}

// safeRedirect only accepts local absolute paths so "next" cannot point off-site.
func safeRedirect(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return fallback
	}
	return next
}

func (s *Server) sessionCookie(token string, expires time.Time) string {
	cookie := &stdhttp.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	return cookie.String()
}

func (s *Server) clearSessionCookie() string {
	cookie := &stdhttp.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	return cookie.String()
}
