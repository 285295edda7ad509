package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	dataaccounts "jobboard/app/internal/data/accounts"
	datajobs "jobboard/app/internal/data/jobs"
	dataposts "jobboard/app/internal/data/posts"
)

// Models lists every record type in dependency order.
func Models() []any {
	return []any{
		&dataaccounts.UserRecord{},
		&dataaccounts.SessionRecord{},
		&dataposts.PostRecord{},
		&datajobs.JobRecord{},
		&datajobs.ApplicantRecord{},
	}
}

// Migrate applies the schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "schema.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("schema migration failed")
		}
		return eris.Wrap(err, "auto migrating schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("schema migration complete")
	}

	return nil
}
