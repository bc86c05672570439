package handler

import (
	"time"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// --- Request types ---

type upsertUserRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Name     string `json:"name"      validate:"required,min=2,max=80"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=2,max=80"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
	Phone    *string `json:"phone"     validate:"omitempty,max=20"`
}

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type createStaffRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Name       string `json:"name"       validate:"required,min=2,max=80"`
	Password   string `json:"password"   validate:"required,min=8"`
	Department string `json:"department" validate:"required"`
}

// --- Response types ---

type userResponse struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Role           string    `json:"role"`
	Department     string    `json:"department,omitempty"`
	IsPremium      bool      `json:"is_premium"`
	IsBlocked      bool      `json:"is_blocked"`
	IssuesReported int       `json:"issues_reported"`
	CreatedAt      time.Time `json:"created_at"`
}

type userListResponse struct {
	Data []userResponse `json:"data"`
}

type roleResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		Email:          u.Email,
		Name:           u.Name,
		PhotoURL:       u.PhotoURL,
		Phone:          u.Phone,
		Role:           string(u.Role),
		Department:     u.Department,
		IsPremium:      u.IsPremium,
		IsBlocked:      u.IsBlocked,
		IssuesReported: u.IssuesReported,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

func toUserListResponse(users []*domain.User) userListResponse {
	items := make([]userResponse, len(users))
	for idx, u := range users {
		items[idx] = *toUserResponse(u)
	}
	return userListResponse{Data: items}
}
