package repository

import (
	"context"
	"os"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prettytrace/src/database"
	"prettytrace/src/model"
)

// ReportRepository handles persistence of error reports.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new repository instance backed by the main
// database connection.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		db: database.MainDB,
	}
}

// Create persists a new error report.
func (r *ReportRepository) Create(ctx context.Context, rep *model.ErrorReport) error {
	logger.WithFields(map[string]interface{}{
		"id":      rep.ID,
		"service": rep.Service,
		"mode":    rep.Mode,
		"level":   rep.Level,
	}).Info("Persisting error report")

	return r.db.WithContext(ctx).Create(rep).Error
}

// HandleReport adapts Create to the catcher's report handler contract so
// every handled exception leaves a row behind. Persistence failures are
// logged and swallowed.
func (r *ReportRepository) HandleReport(err error, reportText string) {
	rep := &model.ErrorReport{
		ID:      uuid.NewString(),
		Service: os.Getenv("APP_NAME"),
		Message: err.Error(),
		Report:  reportText,
		Level:   "error",
	}
	if createErr := r.Create(context.Background(), rep); createErr != nil {
		logger.WithError(createErr).Error("Failed to persist error report")
	}
}

// Recent returns the most recent reports, newest first.
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]model.ErrorReport, error) {
	if limit <= 0 {
		limit = 50
	}

	var reports []model.ErrorReport
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// FindByID loads one report, or gorm.ErrRecordNotFound.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*model.ErrorReport, error) {
	var rep model.ErrorReport
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rep).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
