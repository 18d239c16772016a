package dto

import (
	"time"

	"github.com/yigit/classqa/internal/app/models"
)

// CreateLectureRequest represents lecture creation data
type CreateLectureRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=200" example:"Algorithms"`
	Description *string `json:"description" example:"Sorting, graphs and dynamic programming"`
}

// LectureResponse represents a lecture
type LectureResponse struct {
	ID            int64          `json:"id" example:"1"`
	Name          string         `json:"name" example:"Algorithms"`
	Description   *string        `json:"description"`
	TeacherID     int64          `json:"teacherId" example:"1"`
	Teacher       AuthorResponse `json:"teacher"`
	QuestionCount int            `json:"questionCount" example:"3"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// LectureEnvelope wraps a single lecture
type LectureEnvelope struct {
	Lecture LectureResponse `json:"lecture"`
}

// LectureListResponse wraps a lecture list
type LectureListResponse struct {
	Lectures []LectureResponse `json:"lectures"`
}

// NewLectureResponse converts a lecture model. Teachers are always shown by name.
func NewLectureResponse(l *models.Lecture) LectureResponse {
	resp := LectureResponse{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		TeacherID:     l.TeacherID,
		QuestionCount: l.QuestionCount,
		CreatedAt:     l.CreatedAt,
		Teacher:       AuthorResponse{ID: l.TeacherID, Role: string(models.RoleTeacher)},
	}
	if l.Teacher != nil {
		resp.Teacher.Name = l.Teacher.Name
		resp.Teacher.Role = string(l.Teacher.Role)
	}
	return resp
}

// NewLectureListResponse converts a slice of lectures
func NewLectureListResponse(lectures []models.Lecture) LectureListResponse {
	resp := LectureListResponse{Lectures: make([]LectureResponse, 0, len(lectures))}
	for i := range lectures {
		resp.Lectures = append(resp.Lectures, NewLectureResponse(&lectures[i]))
	}
	return resp
}
