package http

import (
	"net/url"

	"jobboard/app/internal/presentation/http/templates"
)

const (
	noticeJobCreated     = "job_created"
	noticeJobUpdated     = "job_updated"
	noticeJobDeleted     = "job_deleted"
	noticeApplied        = "applied"
	noticeAlreadyApplied = "already_applied"
	noticeAdminRequired  = "admin_required"
	noticePostCreated    = "post_created"
	noticeRegistered     = "registered"
	noticeLoggedIn       = "logged_in"
	noticeLoggedOut      = "logged_out"
	noticeLoginRequired  = "login_required"
)

var notices = map[string]templates.Notice{
	noticeJobCreated:     {Kind: "success", Message: "Job created successfully."},
	noticeJobUpdated:     {Kind: "success", Message: "Job updated successfully."},
	noticeJobDeleted:     {Kind: "success", Message: "Job deleted successfully."},
	noticeApplied:        {Kind: "success", Message: "Application submitted successfully!"},
	noticeAlreadyApplied: {Kind: "error", Message: "You have already applied for this job."},
	noticeAdminRequired:  {Kind: "error", Message: "Only admin users can create jobs."},
	noticePostCreated:    {Kind: "success", Message: "Post published."},
	noticeRegistered:     {Kind: "success", Message: "Welcome! Your account has been created."},
	noticeLoggedIn:       {Kind: "success", Message: "You are now logged in."},
	noticeLoggedOut:      {Kind: "info", Message: "You have been logged out."},
	noticeLoginRequired:  {Kind: "info", Message: "Please log in to continue."},
}

// noticeFor maps a notice code from the query string to its message. Unknown codes are ignored.
func noticeFor(code string) *templates.Notice {
	notice, ok := notices[code]
	if !ok {
		return nil
	}
	return &notice
}

// withNotice appends the notice code to a local path.
func withNotice(path, code string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	query := u.Query()
	query.Set("notice", code)
	u.RawQuery = query.Encode()
	return u.String()
}

func loginURL(next string) string {
	query := url.Values{}
	query.Set("notice", noticeLoginRequired)
	if next != "" {
		query.Set("next", next)
	}
	return "/login?" + query.Encode()
}
