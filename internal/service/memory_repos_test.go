package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
)

// Map-backed repository fakes shared by the service tests.

type memoryUserRepo struct {
	users map[uuid.UUID]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email && user.Role == role {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

type memoryCourseRepo struct {
	courses     map[uuid.UUID]models.Course
	enrollments map[uuid.UUID]models.Enrollment
	users       *memoryUserRepo
}

func newMemoryCourseRepo(users *memoryUserRepo) *memoryCourseRepo {
	return &memoryCourseRepo{
		courses:     make(map[uuid.UUID]models.Course),
		enrollments: make(map[uuid.UUID]models.Enrollment),
		users:       users,
	}
}

func (m *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	if m.users != nil {
		if instructor, err := m.users.GetByID(ctx, course.InstructorID); err == nil {
			course.Instructor = instructor
		}
	}
	return course, nil
}

func (m *memoryCourseRepo) GetWithEnrollments(ctx context.Context, id uuid.UUID) (models.Course, error) {
	course, err := m.GetByID(ctx, id)
	if err != nil {
		return models.Course{}, err
	}
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == id {
			course.Enrollments = append(course.Enrollments, enrollment)
		}
	}
	return course, nil
}

func (m *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	course.UpdatedAt = time.Now()
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *memoryCourseRepo) ListWithFilter(ctx context.Context, filter repository.CourseFilter) ([]models.Course, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]models.Course, 0, len(m.courses))
	for id := range m.courses {
		course, _ := m.GetByID(ctx, id)
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) {
			continue
		}
		filtered = append(filtered, course)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	filtered = paginate(filtered, filter.Page, filter.PageSize)
	return filtered, total, nil
}

func (m *memoryCourseRepo) CountEnrollmentsMatching(ctx context.Context, search string) (int64, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	var count int64
	for _, enrollment := range m.enrollments {
		course, ok := m.courses[enrollment.CourseID]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *memoryCourseRepo) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	enrollment.CreatedAt = time.Now()
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *memoryCourseRepo) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID && enrollment.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCourseRepo) ListStudents(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.User, int64, error) {
	students := make([]models.User, 0)
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID != courseID {
			continue
		}
		if student, err := m.users.GetByID(ctx, enrollment.UserID); err == nil {
			students = append(students, student)
		}
	}

	sort.Slice(students, func(i, j int) bool {
		return students[i].Name < students[j].Name
	})

	total := int64(len(students))
	return paginate(students, page, pageSize), total, nil
}

type memoryModuleRepo struct {
	modules     map[uuid.UUID]models.Module
	lessons     map[uuid.UUID]models.Lesson
	assignments map[uuid.UUID]models.Assignment
	courses     *memoryCourseRepo
}

func newMemoryModuleRepo(courses *memoryCourseRepo) *memoryModuleRepo {
	return &memoryModuleRepo{
		modules:     make(map[uuid.UUID]models.Module),
		lessons:     make(map[uuid.UUID]models.Lesson),
		assignments: make(map[uuid.UUID]models.Assignment),
		courses:     courses,
	}
}

func (m *memoryModuleRepo) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	module.CreatedAt = time.Now()
	module.UpdatedAt = time.Now()
	m.modules[module.ID] = *module
	return nil
}

func (m *memoryModuleRepo) GetModule(ctx context.Context, id uuid.UUID) (models.Module, error) {
	module, ok := m.modules[id]
	if !ok {
		return models.Module{}, gorm.ErrRecordNotFound
	}
	return module, nil
}

func (m *memoryModuleRepo) GetModuleWithCourse(ctx context.Context, id uuid.UUID) (models.Module, error) {
	module, err := m.GetModule(ctx, id)
	if err != nil {
		return models.Module{}, err
	}
	if course, err := m.courses.GetByID(ctx, module.CourseID); err == nil {
		module.Course = course
	}
	return module, nil
}

func (m *memoryModuleRepo) UpdateModule(ctx context.Context, module *models.Module) error {
	if _, ok := m.modules[module.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	module.UpdatedAt = time.Now()
	m.modules[module.ID] = *module
	return nil
}

func (m *memoryModuleRepo) DeleteModule(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.modules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.modules, id)
	return nil
}

func (m *memoryModuleRepo) CountLessons(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	for _, lesson := range m.lessons {
		if lesson.ModuleID == moduleID {
			count++
		}
	}
	return count, nil
}

func (m *memoryModuleRepo) ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Module, int64, error) {
	modules := make([]models.Module, 0)
	for _, module := range m.modules {
		if module.CourseID != courseID {
			continue
		}
		for _, lesson := range m.lessons {
			if lesson.ModuleID == module.ID {
				module.Lessons = append(module.Lessons, lesson)
			}
		}
		modules = append(modules, module)
	}

	sort.Slice(modules, func(i, j int) bool {
		return modules[i].CreatedAt.Before(modules[j].CreatedAt)
	})

	total := int64(len(modules))
	return paginate(modules, page, pageSize), total, nil
}

func (m *memoryModuleRepo) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = time.Now()
	m.lessons[lesson.ID] = *lesson
	return nil
}

func (m *memoryModuleRepo) GetLesson(ctx context.Context, id uuid.UUID) (models.Lesson, error) {
	lesson, ok := m.lessons[id]
	if !ok {
		return models.Lesson{}, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (m *memoryModuleRepo) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := m.lessons[lesson.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	lesson.UpdatedAt = time.Now()
	m.lessons[lesson.ID] = *lesson
	return nil
}

func (m *memoryModuleRepo) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.lessons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.lessons, id)
	return nil
}

func (m *memoryModuleRepo) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryModuleRepo) GetAssignment(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryModuleRepo) GetAssignmentWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	assignment, err := m.GetAssignment(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if module, err := m.GetModuleWithCourse(ctx, assignment.ModuleID); err == nil {
		assignment.Module = module
	}
	return assignment, nil
}

func (m *memoryModuleRepo) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryModuleRepo) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

type memorySubmissionRepo struct {
	submissions map[uuid.UUID]models.Submission
	grades      map[uuid.UUID]models.Grade
	modules     *memoryModuleRepo
}

func newMemorySubmissionRepo(modules *memoryModuleRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uuid.UUID]models.Submission),
		grades:      make(map[uuid.UUID]models.Grade),
		modules:     modules,
	}
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	submission.SubmittedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetWithChain(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	submission, err := m.GetByID(ctx, id)
	if err != nil {
		return models.Submission{}, err
	}
	if assignment, err := m.modules.GetAssignmentWithCourse(ctx, submission.AssignmentID); err == nil {
		submission.Assignment = assignment
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetWithGrade(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	submission, err := m.GetByID(ctx, id)
	if err != nil {
		return models.Submission{}, err
	}
	for _, grade := range m.grades {
		if grade.SubmissionID == id {
			attached := grade
			submission.Grade = &attached
			break
		}
	}
	return submission, nil
}

func (m *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uuid.UUID, page, pageSize int) ([]models.Submission, int64, error) {
	submissions := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			submissions = append(submissions, submission)
		}
	}

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	total := int64(len(submissions))
	return paginate(submissions, page, pageSize), total, nil
}

func (m *memorySubmissionRepo) UpsertGrade(ctx context.Context, submissionID uuid.UUID, score int, feedback string) (models.Grade, error) {
	for id, grade := range m.grades {
		if grade.SubmissionID == submissionID {
			grade.Score = score
			grade.Feedback = feedback
			grade.UpdatedAt = time.Now()
			m.grades[id] = grade
			return grade, nil
		}
	}

	grade := models.Grade{
		ID:           uuid.New(),
		Score:        score,
		Feedback:     feedback,
		SubmissionID: submissionID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.grades[grade.ID] = grade
	return grade, nil
}

type memoryDiscussionRepo struct {
	discussions map[uuid.UUID]models.Discussion
	comments    map[uuid.UUID]models.Comment
	users       *memoryUserRepo
}

func newMemoryDiscussionRepo(users *memoryUserRepo) *memoryDiscussionRepo {
	return &memoryDiscussionRepo{
		discussions: make(map[uuid.UUID]models.Discussion),
		comments:    make(map[uuid.UUID]models.Comment),
		users:       users,
	}
}

func (m *memoryDiscussionRepo) CreateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	if discussion.ID == uuid.Nil {
		discussion.ID = uuid.New()
	}
	discussion.CreatedAt = time.Now()
	discussion.UpdatedAt = time.Now()
	if user, err := m.users.GetByID(ctx, discussion.UserID); err == nil {
		discussion.User = user
	}
	m.discussions[discussion.ID] = *discussion
	return nil
}

func (m *memoryDiscussionRepo) GetDiscussion(ctx context.Context, id uuid.UUID) (models.Discussion, error) {
	discussion, ok := m.discussions[id]
	if !ok {
		return models.Discussion{}, gorm.ErrRecordNotFound
	}
	return discussion, nil
}

func (m *memoryDiscussionRepo) ListByCourse(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]models.Discussion, int64, error) {
	discussions := make([]models.Discussion, 0)
	for _, discussion := range m.discussions {
		if discussion.CourseID != courseID {
			continue
		}
		for _, comment := range m.comments {
			if comment.DiscussionID == discussion.ID {
				discussion.Comments = append(discussion.Comments, comment)
			}
		}
		sort.Slice(discussion.Comments, func(i, j int) bool {
			return discussion.Comments[i].CreatedAt.Before(discussion.Comments[j].CreatedAt)
		})
		discussions = append(discussions, discussion)
	}

	sort.Slice(discussions, func(i, j int) bool {
		return discussions[i].CreatedAt.After(discussions[j].CreatedAt)
	})

	total := int64(len(discussions))
	return paginate(discussions, page, pageSize), total, nil
}

func (m *memoryDiscussionRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now()
	if user, err := m.users.GetByID(ctx, comment.UserID); err == nil {
		comment.User = user
	}
	m.comments[comment.ID] = *comment
	return nil
}

func (m *memoryDiscussionRepo) GetComment(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return models.Comment{}, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (m *memoryDiscussionRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.comments, id)
	return nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
