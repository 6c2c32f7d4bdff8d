package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userUsecase "github.com/allisson/userauth/internal/user/usecase"
)

// adminOutput is the serializable result of a create-admin run. The password
// is never echoed back.
type adminOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RunCreateAdmin provisions an administrator account out of band. The regular
// registration endpoint only creates regular users, so the first admin (and
// any later ones created from the command line) comes through here.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating admin user", slog.String("email", email))

	user, err := userUseCase.CreateAdmin(ctx, userUsecase.RegisterUserInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	output := adminOutput{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}

	if format == "json" {
		if err := outputAdminJSON(output, io.Writer); err != nil {
			return err
		}
	} else {
		outputAdminText(output, io.Writer)
	}

	logger.Info("admin user created successfully",
		slog.String("user_id", output.ID),
		slog.String("email", output.Email),
	)

	return nil
}

// outputAdminJSON writes the result as indented JSON.
func outputAdminJSON(output adminOutput, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// outputAdminText writes the result in a human-readable format.
func outputAdminText(output adminOutput, w io.Writer) {
	fmt.Fprintln(w, "Admin user created:")
	fmt.Fprintf(w, "  ID:    %s\n", output.ID)
	fmt.Fprintf(w, "  Name:  %s\n", output.Name)
	fmt.Fprintf(w, "  Email: %s\n", output.Email)
	fmt.Fprintf(w, "  Role:  %s\n", output.Role)
}
