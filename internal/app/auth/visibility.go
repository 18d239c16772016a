package auth

import (
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
)

// DefaultAnonymousLabel is shown in place of hidden author names
const DefaultAnonymousLabel = "匿名"

// Visibility decides how author names are shown to a viewer
type Visibility struct {
	anonymousLabel string
}

// NewVisibility creates the rule set; an empty label falls back to DefaultAnonymousLabel
func NewVisibility(anonymousLabel string) *Visibility {
	if anonymousLabel == "" {
		anonymousLabel = DefaultAnonymousLabel
	}
	return &Visibility{anonymousLabel: anonymousLabel}
}

// AnonymousLabel returns the label used for hidden names
func (v *Visibility) AnonymousLabel() string {
	return v.anonymousLabel
}

// QuestionAuthorName: teachers see real names. Everyone else sees the
// author's current nickname only if the question was posted with
// showNickname on, otherwise the anonymous label.
func (v *Visibility) QuestionAuthorName(viewer Principal, question *models.Question) string {
	author := question.Author
	if author == nil {
		return v.anonymousLabel
	}
	if viewer.IsTeacher() {
		return author.Name
	}
	if question.ShowNickname && author.Nickname != nil && *author.Nickname != "" {
		return *author.Nickname
	}
	return v.anonymousLabel
}

// AnswerAuthorName: teachers see real names and teacher authors are always
// named. Student authors are shown by nickname only while their account-level
// showNickname is on.
func (v *Visibility) AnswerAuthorName(viewer Principal, answer *models.Answer) string {
	author := answer.Author
	if author == nil {
		return v.anonymousLabel
	}
	if viewer.IsTeacher() || author.Role == models.RoleTeacher {
		return author.Name
	}
	if nickname, ok := author.PublicNickname(); ok {
		return nickname
	}
	return v.anonymousLabel
}

// ShapeQuestion renders a question, its answers and their authors for viewer
func (v *Visibility) ShapeQuestion(viewer Principal, q *models.Question) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:           q.ID,
		Title:        q.Title,
		Content:      q.Content,
		AuthorID:     q.AuthorID,
		LectureID:    q.LectureID,
		Resolved:     q.Resolved,
		ShowNickname: q.ShowNickname,
		Author:       v.author(q.AuthorID, q.Author, v.QuestionAuthorName(viewer, q)),
		Tags:         dto.NewTagResponses(q.Tags),
		Images:       imageResponses(q.Images),
		Answers:      make([]dto.AnswerResponse, 0, len(q.Answers)),
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
	for i := range q.Answers {
		resp.Answers = append(resp.Answers, v.ShapeAnswer(viewer, &q.Answers[i]))
	}
	return resp
}

// ShapeQuestions renders a list of questions for viewer
func (v *Visibility) ShapeQuestions(viewer Principal, questions []models.Question) []dto.QuestionResponse {
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, v.ShapeQuestion(viewer, &questions[i]))
	}
	return resp
}

// ShapeAnswer renders an answer for viewer
func (v *Visibility) ShapeAnswer(viewer Principal, a *models.Answer) dto.AnswerResponse {
	return dto.AnswerResponse{
		ID:         a.ID,
		Content:    a.Content,
		AuthorID:   a.AuthorID,
		QuestionID: a.QuestionID,
		Author:     v.author(a.AuthorID, a.Author, v.AnswerAuthorName(viewer, a)),
		Images:     imageResponses(a.Images),
		CreatedAt:  a.CreatedAt,
	}
}

// author keeps id and role intact; only the name is shaped
func (v *Visibility) author(id int64, user *models.User, name string) dto.AuthorResponse {
	resp := dto.AuthorResponse{ID: id, Name: name}
	if user != nil {
		resp.Role = string(user.Role)
	}
	return resp
}

func imageResponses(images []models.Image) []dto.ImageResponse {
	resp := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, dto.ImageResponse{ID: img.ID, Filename: img.Filename, Path: img.Path})
	}
	return resp
}
