package dto

import "time"

// ImageAttachment references a previously uploaded file by name. Path is
// accepted for compatibility but the stored path is always derived from
// Filename.
type ImageAttachment struct {
	Filename string `json:"filename" binding:"required,notblank,max=255" example:"2f1c6a8e-7d1b-4e0c-9b7a-0c1d2e3f4a5b.png"`
	Path     string `json:"path,omitempty" example:"/uploads/2f1c6a8e-7d1b-4e0c-9b7a-0c1d2e3f4a5b.png"`
}

// CreateQuestionRequest represents question creation data
type CreateQuestionRequest struct {
	Title     string            `json:"title" binding:"required,notblank,max=200" example:"Why is quicksort O(n log n) on average?"`
	Content   string            `json:"content" binding:"required,notblank" example:"I don't get the pivot analysis."`
	LectureID int64             `json:"lectureId" binding:"required,min=1" example:"1"`
	TagIDs    []int64           `json:"tagIds" binding:"omitempty,dive,min=1"`
	Images    []ImageAttachment `json:"images" binding:"omitempty,dive"`
}

// UpdateQuestionTagsRequest replaces a question's tag set
type UpdateQuestionTagsRequest struct {
	TagIDs []int64 `json:"tagIds" binding:"omitempty,dive,min=1"`
}

// CreateAnswerRequest represents answer creation data
type CreateAnswerRequest struct {
	Content string            `json:"content" binding:"required,notblank" example:"Expected recursion depth is logarithmic."`
	Images  []ImageAttachment `json:"images" binding:"omitempty,dive"`
}

// ImageResponse represents an attached image
type ImageResponse struct {
	ID       int64  `json:"id" example:"3"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// AnswerResponse represents an answer with its viewer-shaped author
type AnswerResponse struct {
	ID         int64           `json:"id" example:"8"`
	Content    string          `json:"content"`
	AuthorID   int64           `json:"authorId" example:"2"`
	QuestionID int64           `json:"questionId" example:"5"`
	Author     AuthorResponse  `json:"author"`
	Images     []ImageResponse `json:"images"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// QuestionResponse represents a question with its viewer-shaped authors
type QuestionResponse struct {
	ID           int64            `json:"id" example:"5"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	AuthorID     int64            `json:"authorId" example:"2"`
	LectureID    int64            `json:"lectureId" example:"1"`
	Resolved     bool             `json:"resolved" example:"false"`
	ShowNickname bool             `json:"showNickname" example:"false"`
	Author       AuthorResponse   `json:"author"`
	Tags         []TagResponse    `json:"tags"`
	Images       []ImageResponse  `json:"images"`
	Answers      []AnswerResponse `json:"answers"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// QuestionEnvelope wraps a single question
type QuestionEnvelope struct {
	Question QuestionResponse `json:"question"`
}

// QuestionListResponse wraps a question list
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// AnswerEnvelope wraps a single answer
type AnswerEnvelope struct {
	Answer AnswerResponse `json:"answer"`
}
