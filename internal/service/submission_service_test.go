package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/pkg/events"
)

type submissionFixture struct {
	svc        SubmissionService
	users      *memoryUserRepo
	courses    *memoryCourseRepo
	instructor models.User
	student    models.User
	course     models.Course
	assignment models.Assignment
}

func newSubmissionFixture(t *testing.T) submissionFixture {
	t.Helper()

	users := newMemoryUserRepo()
	courses := newMemoryCourseRepo(users)
	modules := newMemoryModuleRepo(courses)
	submissions := newMemorySubmissionRepo(modules)
	validate := validator.New(validator.WithRequiredStructEnabled())
	publisher := events.NewPublisher(nil, "test.events", zerolog.Nop())

	svc := NewSubmissionService(submissions, modules, courses, publisher, validate, zerolog.Nop())

	ctx := context.Background()

	instructor := models.User{Name: "Budi Santoso", Email: "budi@example.com", Role: models.RoleInstructor}
	require.NoError(t, users.Create(ctx, &instructor))

	student := models.User{Name: "Siti Rahma", Email: "siti@example.com", Role: models.RoleStudent}
	require.NoError(t, users.Create(ctx, &student))

	course := models.Course{Title: "Go Basics", Description: "Fundamentals", InstructorID: instructor.ID}
	require.NoError(t, courses.Create(ctx, &course))

	module := models.Module{Title: "Week 1", CourseID: course.ID}
	require.NoError(t, modules.CreateModule(ctx, &module))

	assignment := models.Assignment{Title: "Build a CLI", ModuleID: module.ID}
	require.NoError(t, modules.CreateAssignment(ctx, &assignment))

	require.NoError(t, courses.CreateEnrollment(ctx, &models.Enrollment{CourseID: course.ID, UserID: student.ID}))

	return submissionFixture{
		svc:        svc,
		users:      users,
		courses:    courses,
		instructor: instructor,
		student:    student,
		course:     course,
		assignment: assignment,
	}
}

func (f submissionFixture) mustSubmit(t *testing.T) dto.SubmissionResponse {
	t.Helper()

	submission, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, dto.SubmissionCreateRequest{
		Content: "Here is my solution to the assignment.",
	})
	require.NoError(t, err)
	return submission
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	f := newSubmissionFixture(t)

	outsider := models.User{Name: "Dewi Lestari", Email: "dewi@example.com", Role: models.RoleStudent}
	require.NoError(t, f.users.Create(context.Background(), &outsider))

	payload := dto.SubmissionCreateRequest{Content: "Here is my solution to the assignment."}

	_, err := f.svc.Submit(context.Background(), outsider.ID, f.assignment.ID, payload)
	require.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.svc.Submit(context.Background(), f.student.ID, uuid.New(), payload)
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	submission := f.mustSubmit(t)
	require.Equal(t, f.student.ID, submission.StudentID)
}

func TestListSubmissionsOwnerOnly(t *testing.T) {
	f := newSubmissionFixture(t)
	f.mustSubmit(t)

	other := models.User{Name: "Dewi Lestari", Email: "dewi@example.com", Role: models.RoleInstructor}
	require.NoError(t, f.users.Create(context.Background(), &other))

	_, err := f.svc.ListByAssignment(context.Background(), other.ID, f.assignment.ID, dto.PageQuery{})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	page, err := f.svc.ListByAssignment(context.Background(), f.instructor.ID, f.assignment.ID, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Submissions, 1)
	require.EqualValues(t, 1, page.Total)
}

func TestCommentOnSubmission(t *testing.T) {
	f := newSubmissionFixture(t)
	submission := f.mustSubmit(t)

	payload := dto.SubmissionCommentRequest{Comment: "Good start, but handle the error paths."}

	updated, err := f.svc.Comment(context.Background(), f.instructor.ID, submission.ID, payload)
	require.NoError(t, err)
	require.Equal(t, payload.Comment, updated.Comment)

	other := models.User{Name: "Dewi Lestari", Email: "dewi@example.com", Role: models.RoleInstructor}
	require.NoError(t, f.users.Create(context.Background(), &other))

	_, err = f.svc.Comment(context.Background(), other.ID, submission.ID, payload)
	require.ErrorIs(t, err, ErrNotCourseOwner)

	_, err = f.svc.Comment(context.Background(), f.instructor.ID, uuid.New(), payload)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestAssignGradeUpserts(t *testing.T) {
	f := newSubmissionFixture(t)
	submission := f.mustSubmit(t)

	score := 70
	grade, err := f.svc.AssignGrade(context.Background(), f.instructor.ID, submission.ID, dto.GradeRequest{
		Score:    &score,
		Feedback: "Solid work overall.",
	})
	require.NoError(t, err)
	require.Equal(t, 70, grade.Score)

	// Regrading replaces the existing grade instead of adding another.
	better := 85
	regraded, err := f.svc.AssignGrade(context.Background(), f.instructor.ID, submission.ID, dto.GradeRequest{
		Score:    &better,
		Feedback: "Improved after revisions.",
	})
	require.NoError(t, err)
	require.Equal(t, 85, regraded.Score)
	require.Equal(t, grade.ID, regraded.ID)

	view, graded, err := f.svc.GetGrade(context.Background(), f.student.ID, submission.ID)
	require.NoError(t, err)
	require.True(t, graded)
	require.Equal(t, 85, view.Score)
	require.Equal(t, "Improved after revisions.", view.Feedback)
}

func TestGetGradeOwnerOnly(t *testing.T) {
	f := newSubmissionFixture(t)
	submission := f.mustSubmit(t)

	_, graded, err := f.svc.GetGrade(context.Background(), f.student.ID, submission.ID)
	require.NoError(t, err)
	require.False(t, graded)

	other := models.User{Name: "Dewi Lestari", Email: "dewi@example.com", Role: models.RoleStudent}
	require.NoError(t, f.users.Create(context.Background(), &other))

	_, _, err = f.svc.GetGrade(context.Background(), other.ID, submission.ID)
	require.ErrorIs(t, err, ErrNotSubmissionOwner)

	_, _, err = f.svc.GetGrade(context.Background(), f.student.ID, uuid.New())
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
