package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// SubmissionRepository defines persistence operations for submissions and
// their grades.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error)
	GetWithChain(ctx context.Context, id uuid.UUID) (models.Submission, error)
	GetWithGrade(ctx context.Context, id uuid.UUID) (models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID, page, pageSize int) ([]models.Submission, int64, error)
	UpsertGrade(ctx context.Context, submissionID uuid.UUID, score int, feedback string) (models.Grade, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// GetWithChain loads the submission together with its assignment, module and
// course so callers can walk ownership without extra queries.
func (r *submissionRepository) GetWithChain(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Module").
		Preload("Assignment.Module.Course").
		First(&submission, "id = ?", id).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetWithGrade(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Preload("Grade").First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID, page, pageSize int) ([]models.Submission, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Submission{}).Where("assignment_id = ?", assignmentID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}

	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// UpsertGrade creates the grade on first evaluation and overwrites
// score/feedback on re-grading, preserving the one-grade-per-submission
// constraint.
func (r *submissionRepository) UpsertGrade(ctx context.Context, submissionID uuid.UUID, score int, feedback string) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).First(&grade, "submission_id = ?", submissionID).Error
	switch {
	case err == nil:
		grade.Score = score
		grade.Feedback = feedback
		if err := r.db.WithContext(ctx).Save(&grade).Error; err != nil {
			return models.Grade{}, err
		}
		return grade, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		grade = models.Grade{
			Score:        score,
			Feedback:     feedback,
			SubmissionID: submissionID,
		}
		if err := r.db.WithContext(ctx).Create(&grade).Error; err != nil {
			return models.Grade{}, err
		}
		return grade, nil
	default:
		return models.Grade{}, err
	}
}
