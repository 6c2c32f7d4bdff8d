package dto

import (
	"github.com/allisson/userauth/internal/user/domain"
	"github.com/allisson/userauth/internal/user/usecase"
)

// ToUserResponse converts a domain User model to a UserResponse DTO.
// This enforces the boundary between internal domain models and external API contracts.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserListResponse converts domain users to a list response DTO
func ToUserListResponse(users []*domain.User) UserListResponse {
	response := UserListResponse{
		Users: make([]UserResponse, 0, len(users)),
	}
	for _, user := range users {
		response.Users = append(response.Users, ToUserResponse(user))
	}
	return response
}

// ToUpdateUserInput converts an UpdateUserRequest DTO to an UpdateUserInput use case input
func ToUpdateUserInput(req UpdateUserRequest) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
}
