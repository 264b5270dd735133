package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

func seedSubmission(t *testing.T, db *gorm.DB) models.Submission {
	t.Helper()

	instructor := seedInstructor(t, db, "budi@example.com")
	course := models.Course{Title: "Go Basics", Description: "Fundamentals", InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	module := models.Module{Title: "Week 1", CourseID: course.ID}
	require.NoError(t, db.Create(&module).Error)

	assignment := models.Assignment{Title: "Build a CLI", ModuleID: module.ID}
	require.NoError(t, db.Create(&assignment).Error)

	student := models.User{Name: "Siti Rahma", Email: "siti@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	submission := models.Submission{Content: "My solution goes here.", StudentID: student.ID, AssignmentID: assignment.ID}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestSubmissionRepositoryGetWithChain(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	submission := seedSubmission(t, db)

	loaded, err := repo.GetWithChain(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, "Build a CLI", loaded.Assignment.Title)
	require.Equal(t, "Week 1", loaded.Assignment.Module.Title)
	require.Equal(t, "Go Basics", loaded.Assignment.Module.Course.Title)
}

func TestSubmissionRepositoryUpsertGrade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	submission := seedSubmission(t, db)

	first, err := repo.UpsertGrade(context.Background(), submission.ID, 70, "Solid work overall.")
	require.NoError(t, err)
	require.Equal(t, 70, first.Score)

	second, err := repo.UpsertGrade(context.Background(), submission.ID, 85, "Improved after revisions.")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Grade{}).Where("submission_id = ?", submission.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	loaded, err := repo.GetWithGrade(context.Background(), submission.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Grade)
	require.Equal(t, 85, loaded.Grade.Score)
	require.Equal(t, "Improved after revisions.", loaded.Grade.Feedback)
}
