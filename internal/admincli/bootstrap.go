// Package admincli implements the interactive command that creates the first
// ADMIN account directly against the configured store.
package admincli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// AdminCreator is satisfied by *services.AccountService.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
}

// Run prompts for the admin's details on in, creates the account and prints
// its id to w.
func Run(ctx context.Context, creator AdminCreator, in io.Reader, w io.Writer) error {
	reader := bufio.NewReader(in)

	var input services.RegisterInput
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &input.FirstName},
		{"Last name", &input.LastName},
		{"Email", &input.Email},
		{"Mobile number", &input.MobileNumber},
	}
	for _, f := range fields {
		v, err := GetSimpleText(reader, f.prompt, w)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.prompt, err)
		}
		*f.dst = v
	}

	password, err := GetPassword(reader, "Password", w)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := GetPassword(reader, "Repeat password", w)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	input.Password = password

	res, err := creator.CreateAdmin(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Admin created: id=%s email=%s\n", res.AccountID, res.Email)
	return nil
}
