package jobs

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rotisserie/eris"
)

// AllowedResumeTypes lists the content types accepted for resumes, detected from the file bytes.
var AllowedResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.oasis.opendocument.text",
	"text/rtf",
	"text/plain",
}

const maxResumeNameLength = 255

type inspectedResume struct {
	contentType string
	extension   string
	name        string
}

func inspectResume(upload *ResumeUpload, maxBytes int64) (*inspectedResume, error) {
	if upload == nil || upload.Content == nil || upload.Size == 0 {
		return nil, ErrResumeRequired
	}

	if maxBytes > 0 && upload.Size > maxBytes {
		return nil, eris.Wrapf(ErrInvalidResume, "file size %d exceeds limit of %d bytes", upload.Size, maxBytes)
	}

	detected, err := mimetype.DetectReader(upload.Content)
	if err != nil {
		return nil, eris.Wrap(err, "detecting resume type")
	}

	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, eris.Wrap(err, "rewinding resume")
	}

	if !mimetype.EqualsAny(detected.String(), AllowedResumeTypes...) {
		return nil, eris.Wrapf(ErrInvalidResume, "file type %q is not allowed", detected.String())
	}

	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	extension := detected.Extension()
	if extension == "" {
		extension = strings.ToLower(filepath.Ext(upload.Filename))
	}

	return &inspectedResume{
		contentType: contentType,
		extension:   extension,
		name:        cleanFilename(upload.Filename, extension),
	}, nil
}

func cleanFilename(name, extension string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == 0x7f {
			return -1
		}
		return r
	}, base)

	if base == "" || base == "." || base == "/" {
		base = "resume" + extension
	}

	if runes := []rune(base); len(runes) > maxResumeNameLength {
		base = string(runes[:maxResumeNameLength])
	}

	return base
}
