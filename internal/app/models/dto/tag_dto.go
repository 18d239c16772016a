package dto

import "github.com/yigit/classqa/internal/app/models"

// CreateTagRequest represents tag get-or-create data
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,notblank,max=50" example:"recursion"`
}

// TagResponse represents a tag
type TagResponse struct {
	ID        int64  `json:"id" example:"4"`
	Name      string `json:"name" example:"recursion"`
	LectureID int64  `json:"lectureId" example:"1"`
}

// TagEnvelope wraps a single tag
type TagEnvelope struct {
	Tag TagResponse `json:"tag"`
}

// TagListResponse wraps a tag list
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}

// NewTagResponse converts a tag model
func NewTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, LectureID: t.LectureID}
}

// NewTagResponses converts a slice of tags, never returning nil
func NewTagResponses(tags []models.Tag) []TagResponse {
	resp := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, NewTagResponse(t))
	}
	return resp
}
