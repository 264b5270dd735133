package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// ModuleRepository defines persistence operations for modules and their
// lessons and assignments.
type ModuleRepository interface {
	CreateModule(ctx context.Context, module *models.Module) error
	GetModule(ctx context.Context, id uuid.UUID) (models.Module, error)
	GetModuleWithCourse(ctx context.Context, id uuid.UUID) (models.Module, error)
	UpdateModule(ctx context.Context, module *models.Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error
	CountLessons(ctx context.Context, moduleID uuid.UUID) (int64, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Module, int64, error)

	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	GetLesson(ctx context.Context, id uuid.UUID) (models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id uuid.UUID) error

	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (models.Assignment, error)
	GetAssignmentWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error)
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository instantiates a GORM-backed repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) CreateModule(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) GetModule(ctx context.Context, id uuid.UUID) (models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).First(&module, "id = ?", id).Error; err != nil {
		return models.Module{}, err
	}

	return module, nil
}

func (r *moduleRepository) GetModuleWithCourse(ctx context.Context, id uuid.UUID) (models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).Preload("Course").First(&module, "id = ?", id).Error; err != nil {
		return models.Module{}, err
	}

	return module, nil
}

func (r *moduleRepository) UpdateModule(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

func (r *moduleRepository) DeleteModule(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Module{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *moduleRepository) CountLessons(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *moduleRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Module, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Module{}).Where("course_id = ?", courseID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}

	var modules []models.Module
	err := r.db.WithContext(ctx).
		Preload("Lessons").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&modules).Error
	if err != nil {
		return nil, 0, err
	}

	return modules, total, nil
}

func (r *moduleRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *moduleRepository) GetLesson(ctx context.Context, id uuid.UUID) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return models.Lesson{}, err
	}

	return lesson, nil
}

func (r *moduleRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *moduleRepository) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Lesson{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *moduleRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *moduleRepository) GetAssignment(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *moduleRepository) GetAssignmentWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Module").
		Preload("Module.Course").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *moduleRepository) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *moduleRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
