package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// CourseFilter describes catalog pagination & search options.
type CourseFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CourseRepository defines persistence operations for courses and
// enrollments.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Course, error)
	GetWithEnrollments(ctx context.Context, id uuid.UUID) (models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListWithFilter(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	CountEnrollmentsMatching(ctx context.Context, search string) (int64, error)

	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	ListStudents(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.User, int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Instructor").First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) GetWithEnrollments(ctx context.Context, id uuid.UUID) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Enrollments").First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) ListWithFilter(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Instructor").Preload("Modules").Order("created_at ASC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) CountEnrollmentsMatching(ctx context.Context, search string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id")

	if search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(courses.title) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *courseRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *courseRepository) ListStudents(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("course_id = ?", courseID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}

	var students []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("enrollments.created_at ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}
