// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	"github.com/allisson/userauth/internal/database"
	apperrors "github.com/allisson/userauth/internal/errors"
	"github.com/allisson/userauth/internal/user/domain"
	appValidation "github.com/allisson/userauth/internal/validation"
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput contains the input data for user updates. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	CreateAdmin(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error)
	UpdateUser(ctx context.Context, actorID uuid.UUID, actorRole domain.Role, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher interface defines the password hashing operations used here
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// AuditRecorder interface defines the audit trail operations used here
type AuditRecorder interface {
	Record(ctx context.Context, event authDomain.AuditEvent, userID *uuid.UUID, metadata map[string]any)
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	passwordHasher PasswordHasher
	auditRecorder  AuditRecorder
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	passwordHasher PasswordHasher,
	auditRecorder AuditRecorder,
) UseCase {
	return &UserUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		auditRecorder:  auditRecorder,
	}
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// validateUpdateUserInput validates the update input. Nil fields skip validation.
func (uc *UserUseCase) validateUpdateUserInput(input UpdateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return err
	}

	if input.Role != nil && !domain.Role(*input.Role).IsValid() {
		return domain.ErrInvalidRole
	}
	return nil
}

func (uc *UserUseCase) registerWithRole(ctx context.Context, input RegisterUserInput, role domain.Role) (*domain.User, error) {
	// Validate input
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	// Hash the password
	hashedPassword, err := uc.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(strings.ToLower(input.Email)),
		Password: hashedPassword,
		Role:     role,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.auditRecorder.Record(ctx, authDomain.EventUserRegistered, &user.ID, map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})

	return user, nil
}

// RegisterUser registers a new user with the regular user role
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	return uc.registerWithRole(ctx, input, domain.RoleUser)
}

// CreateAdmin registers a new user with the admin role. Admin accounts are
// provisioned out of band, never through the public registration endpoint.
func (uc *UserUseCase) CreateAdmin(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	return uc.registerWithRole(ctx, input, domain.RoleAdmin)
}

// GetUserByEmail retrieves a user by email
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves a page of users
func (uc *UserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// UpdateUser applies partial updates to a user. Only admins can change roles;
// submitting the user's current role is a no-op and allowed for anyone. A
// role change invalidates the user's refresh session.
func (uc *UserUseCase) UpdateUser(ctx context.Context, actorID uuid.UUID, actorRole domain.Role, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	if err := uc.validateUpdateUserInput(input); err != nil {
		return nil, err
	}

	var user *domain.User
	roleChanged := false

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
		}
		if input.Password != nil {
			hashedPassword, err := uc.passwordHasher.Hash(*input.Password)
			if err != nil {
				return apperrors.Wrap(err, "failed to hash password")
			}
			user.Password = hashedPassword
		}
		if input.Role != nil && domain.Role(*input.Role) != user.Role {
			if actorRole != domain.RoleAdmin {
				return domain.ErrRoleElevationDenied
			}
			user.Role = domain.Role(*input.Role)
			// A role change invalidates the refresh session so the next access
			// token carries the new role.
			user.RefreshTokenHash = nil
			roleChanged = true
		}

		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if roleChanged {
		uc.auditRecorder.Record(ctx, authDomain.EventRoleChanged, &user.ID, map[string]any{
			"actor_id": actorID.String(),
			"role":     string(user.Role),
		})
	}

	return user, nil
}

// DeleteUser removes a user by ID
func (uc *UserUseCase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Delete(ctx, id)
}
