package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// DiscussionCreateRequest is the payload for starting a discussion.
type DiscussionCreateRequest struct {
	Title string `json:"title" validate:"required,min=10,max=100"`
}

// CommentCreateRequest is the payload for commenting on a discussion.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,min=2,max=1000"`
}

// CommentResponse is the API projection of a comment.
type CommentResponse struct {
	ID           uuid.UUID `json:"id"`
	Author       string    `json:"author"`
	Content      string    `json:"content"`
	DiscussionID uuid.UUID `json:"discussion_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentResponse maps a comment model to its API projection.
func NewCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:           comment.ID,
		Author:       comment.User.Name,
		Content:      comment.Content,
		DiscussionID: comment.DiscussionID,
		CreatedAt:    comment.CreatedAt,
	}
}

// NewCommentResponseSlice maps a slice of comment models.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}
	return responses
}

// DiscussionResponse is the API projection of a discussion thread.
type DiscussionResponse struct {
	ID        uuid.UUID         `json:"id"`
	Author    string            `json:"author"`
	Title     string            `json:"title"`
	Comments  []CommentResponse `json:"comments,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewDiscussionResponse maps a discussion model to its API projection.
func NewDiscussionResponse(discussion models.Discussion) DiscussionResponse {
	response := DiscussionResponse{
		ID:        discussion.ID,
		Author:    discussion.User.Name,
		Title:     discussion.Title,
		CreatedAt: discussion.CreatedAt,
	}
	if len(discussion.Comments) > 0 {
		response.Comments = NewCommentResponseSlice(discussion.Comments)
	}
	return response
}

// NewDiscussionResponseSlice maps a slice of discussion models.
func NewDiscussionResponseSlice(discussions []models.Discussion) []DiscussionResponse {
	responses := make([]DiscussionResponse, 0, len(discussions))
	for _, discussion := range discussions {
		responses = append(responses, NewDiscussionResponse(discussion))
	}
	return responses
}

// DiscussionListResponse is a page of a course's discussions.
type DiscussionListResponse struct {
	Discussions []DiscussionResponse `json:"discussions"`
	PageMeta
}
