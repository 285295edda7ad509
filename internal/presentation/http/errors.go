package http

import (
	stdhttp "net/http"

	"github.com/rotisserie/eris"

	"jobboard/app/internal/domain/accounts"
	"jobboard/app/internal/domain/jobs"
	"jobboard/app/internal/domain/posts"
	"jobboard/app/internal/infrastructure/storage"
	"jobboard/app/internal/platform/validate"
)

func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, jobs.ErrJobNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that job. It may have been removed."
	case eris.Is(err, jobs.ErrApplicantNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that application."
	case eris.Is(err, storage.ErrNotFound):
		return stdhttp.StatusNotFound, "That resume is no longer available."
	case eris.Is(err, posts.ErrPostNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that post."
	case eris.Is(err, jobs.ErrAuthRequired):
		return stdhttp.StatusUnauthorized, "Please log in to continue."
	case eris.Is(err, jobs.ErrAdminRequired):
		return stdhttp.StatusForbidden, "Only admin users can create jobs."
	case eris.Is(err, jobs.ErrForbidden):
		return stdhttp.StatusForbidden, "You are not allowed to manage this job."
	case eris.Is(err, jobs.ErrAlreadyApplied):
		return stdhttp.StatusConflict, "You have already applied for this job."
	case eris.Is(err, jobs.ErrResumeRequired):
		return stdhttp.StatusBadRequest, "Please upload your resume."
	case eris.Is(err, jobs.ErrInvalidResume):
		return stdhttp.StatusBadRequest, "Your resume must be a PDF, Word, OpenDocument, RTF or plain text file within the size limit."
	case eris.Is(err, accounts.ErrEmailTaken):
		return stdhttp.StatusConflict, "An account with this email already exists."
	case eris.Is(err, accounts.ErrInvalidCredentials):
		return stdhttp.StatusUnauthorized, "Invalid email or password."
	case validate.IsValidation(err):
		return stdhttp.StatusUnprocessableEntity, "Please correct the highlighted fields."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}
