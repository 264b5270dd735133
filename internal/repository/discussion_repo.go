package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// DiscussionRepository defines persistence operations for discussions and
// comments.
type DiscussionRepository interface {
	CreateDiscussion(ctx context.Context, discussion *models.Discussion) error
	GetDiscussion(ctx context.Context, id uuid.UUID) (models.Discussion, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Discussion, int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository instantiates a GORM-backed repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) CreateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	if err := r.db.WithContext(ctx).Create(discussion).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Preload("User").First(discussion, "id = ?", discussion.ID).Error
}

func (r *discussionRepository) GetDiscussion(ctx context.Context, id uuid.UUID) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).Preload("User").First(&discussion, "id = ?", id).Error; err != nil {
		return models.Discussion{}, err
	}

	return discussion, nil
}

func (r *discussionRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Discussion, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Discussion{}).Where("course_id = ?", courseID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}

	var discussions []models.Discussion
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&discussions).Error
	if err != nil {
		return nil, 0, err
	}

	return discussions, total, nil
}

func (r *discussionRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Preload("User").First(comment, "id = ?", comment.ID).Error
}

func (r *discussionRepository) GetComment(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return models.Comment{}, err
	}

	return comment, nil
}

func (r *discussionRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
