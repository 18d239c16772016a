package dto

import "github.com/yigit/classqa/internal/app/models"

// StudentSettings holds fields only students have. It is nil for teachers so
// the JSON shape differs by role.
type StudentSettings struct {
	Nickname     *string `json:"nickname"`
	ShowNickname bool    `json:"showNickname"`
}

// UserResponse represents the account owner's view of a user
type UserResponse struct {
	ID    int64  `json:"id" example:"1"`
	Email string `json:"email" example:"hanako@example.com"`
	Name  string `json:"name" example:"Hanako Sato"`
	Role  string `json:"role" example:"STUDENT"`
	*StudentSettings
}

// NewUserResponse converts a user model into its role-shaped response
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
	if u.Role == models.RoleStudent {
		resp.StudentSettings = &StudentSettings{
			Nickname:     u.Nickname,
			ShowNickname: u.ShowNickname,
		}
	}
	return resp
}

// AuthorResponse is a user as shown next to content; Name may be a nickname
// or the anonymous label depending on the viewer.
type AuthorResponse struct {
	ID   int64  `json:"id" example:"2"`
	Name string `json:"name" example:"匿名"`
	Role string `json:"role" example:"STUDENT"`
}
