package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/pkg/events"
)

type courseFixture struct {
	svc        CourseService
	users      *memoryUserRepo
	courses    *memoryCourseRepo
	cache      *redis.Client
	instructor models.User
	student    models.User
}

func newCourseFixture(t *testing.T) courseFixture {
	t.Helper()

	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	users := newMemoryUserRepo()
	courses := newMemoryCourseRepo(users)
	validate := validator.New(validator.WithRequiredStructEnabled())
	publisher := events.NewPublisher(nil, "test.events", zerolog.Nop())

	svc := NewCourseService(courses, users, cache, time.Minute, publisher, validate, zerolog.Nop())

	instructor := models.User{Name: "Budi Santoso", Email: "budi@example.com", Role: models.RoleInstructor}
	require.NoError(t, users.Create(context.Background(), &instructor))

	student := models.User{Name: "Siti Rahma", Email: "siti@example.com", Role: models.RoleStudent}
	require.NoError(t, users.Create(context.Background(), &student))

	return courseFixture{
		svc:        svc,
		users:      users,
		courses:    courses,
		cache:      cache,
		instructor: instructor,
		student:    student,
	}
}

func (f courseFixture) mustCreateCourse(t *testing.T, title string) dto.CourseResponse {
	t.Helper()

	course, err := f.svc.Create(context.Background(), f.instructor.ID, dto.CourseCreateRequest{
		Title:       title,
		Description: "An introductory course covering the basics.",
	})
	require.NoError(t, err)
	return course
}

func TestCreateCourseRequiresInstructor(t *testing.T) {
	f := newCourseFixture(t)

	payload := dto.CourseCreateRequest{Title: "Go Basics", Description: "Learn the fundamentals of Go."}

	_, err := f.svc.Create(context.Background(), f.student.ID, payload)
	require.ErrorIs(t, err, ErrNotInstructor)

	_, err = f.svc.Create(context.Background(), uuid.New(), payload)
	require.ErrorIs(t, err, ErrNotInstructor)

	course, err := f.svc.Create(context.Background(), f.instructor.ID, payload)
	require.NoError(t, err)
	require.Equal(t, "Go Basics", course.Title)
	require.Equal(t, f.instructor.ID, course.Instructor.ID)
}

func TestUpdateCourseOwnership(t *testing.T) {
	f := newCourseFixture(t)
	course := f.mustCreateCourse(t, "Go Basics")

	other := models.User{Name: "Dewi Lestari", Email: "dewi@example.com", Role: models.RoleInstructor}
	require.NoError(t, f.users.Create(context.Background(), &other))

	title := "Go Basics, Revised"
	_, err := f.svc.Update(context.Background(), other.ID, models.RoleInstructor, course.ID, dto.CourseUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	updated, err := f.svc.Update(context.Background(), f.instructor.ID, models.RoleInstructor, course.ID, dto.CourseUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Go Basics, Revised", updated.Title)

	// Admins can edit any course.
	adminTitle := "Go Basics, Admin Edition"
	updated, err = f.svc.Update(context.Background(), uuid.New(), models.RoleAdmin, course.ID, dto.CourseUpdateRequest{Title: &adminTitle})
	require.NoError(t, err)
	require.Equal(t, "Go Basics, Admin Edition", updated.Title)
}

func TestDeleteCourse(t *testing.T) {
	f := newCourseFixture(t)
	course := f.mustCreateCourse(t, "Go Basics")

	err := f.svc.Delete(context.Background(), f.student.ID, models.RoleStudent, course.ID)
	require.ErrorIs(t, err, ErrNotCourseOwner)

	require.NoError(t, f.svc.Delete(context.Background(), f.instructor.ID, models.RoleInstructor, course.ID))

	err = f.svc.Delete(context.Background(), f.instructor.ID, models.RoleInstructor, course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestJoinCourse(t *testing.T) {
	f := newCourseFixture(t)
	course := f.mustCreateCourse(t, "Go Basics")

	require.NoError(t, f.svc.Join(context.Background(), f.student.ID, course.ID))

	err := f.svc.Join(context.Background(), f.student.ID, course.ID)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	err = f.svc.Join(context.Background(), f.student.ID, uuid.New())
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListStudents(t *testing.T) {
	f := newCourseFixture(t)
	course := f.mustCreateCourse(t, "Go Basics")

	require.NoError(t, f.svc.Join(context.Background(), f.student.ID, course.ID))

	roster, err := f.svc.ListStudents(context.Background(), course.ID, dto.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, "Go Basics", roster.Course)
	require.Len(t, roster.Students, 1)
	require.Equal(t, f.student.ID, roster.Students[0].ID)
	require.EqualValues(t, 1, roster.Total)

	_, err = f.svc.ListStudents(context.Background(), uuid.New(), dto.PageQuery{})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListCoursesFiltersAndCounts(t *testing.T) {
	f := newCourseFixture(t)
	f.mustCreateCourse(t, "Go Basics")
	rust := f.mustCreateCourse(t, "Rust Basics")

	require.NoError(t, f.svc.Join(context.Background(), f.student.ID, rust.ID))

	all, err := f.svc.List(context.Background(), "", dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, all.Courses, 2)
	require.EqualValues(t, 2, all.Total)
	require.EqualValues(t, 1, all.TotalStudents)

	filtered, err := f.svc.List(context.Background(), "rust", dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, filtered.Courses, 1)
	require.Equal(t, "Rust Basics", filtered.Courses[0].Title)
}

func TestListCoursesUsesCache(t *testing.T) {
	f := newCourseFixture(t)
	f.mustCreateCourse(t, "Go Basics")

	first, err := f.svc.List(context.Background(), "", dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, first.Courses, 1)

	// A direct write that bypasses the service is invisible until the
	// cached page is invalidated.
	stale := models.Course{Title: "Hidden", Description: "Not in cache", InstructorID: f.instructor.ID}
	require.NoError(t, f.courses.Create(context.Background(), &stale))

	cached, err := f.svc.List(context.Background(), "", dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, cached.Courses, 1)

	// Any catalog mutation through the service clears the cache.
	f.mustCreateCourse(t, "Rust Basics")

	fresh, err := f.svc.List(context.Background(), "", dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, fresh.Courses, 3)
}
