// Package services contains server-side business logic. AccountService
// registers and signs in accounts, resolves bearer tokens to callers and
// applies the authorization policy to profile updates and admin listings.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
)

// RegisterInput is a signup request. Role is optional and defaults to USER.
type RegisterInput struct {
	FirstName    string `json:"firstName" validate:"required,min=2"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role"`
}

// AuthResult is returned by a successful signup or signin.
type AuthResult struct {
	Token     string
	AccountID string
	Email     string
}

// AccountList is a full listing. Accounts is never nil.
type AccountList struct {
	Accounts []*models.Account
	Total    int
}

type AccountService struct {
	repo   accounts.Repository
	hasher auth.Hasher
	tokens *auth.TokenService
	policy auth.Policy
	logger logging.Logger
}

func NewAccountService(repo accounts.Repository, hasher auth.Hasher, tokens *auth.TokenService, policy auth.Policy, logger logging.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		policy: policy,
		logger: logger.With("module", "account_service"),
	}
}

// Register creates a USER or ADMIN account as requested and returns a token
// for it.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, in, role)
}

// CreateAdmin registers an ADMIN account regardless of in.Role.
func (s *AccountService) CreateAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	return s.register(ctx, in, models.RoleAdmin)
}

func (s *AccountService) register(ctx context.Context, in RegisterInput, role models.Role) (*AuthResult, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "lookup by email failed", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, s.internal(ctx, "password hashing failed", err)
	}

	account, err := s.repo.Create(ctx, &models.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, s.internal(ctx, "create account failed", err)
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return nil, s.internal(ctx, "issue token failed", err)
	}

	s.logger.Info(ctx, "Registered", "id", account.ID, "role", string(account.Role))
	return &AuthResult{Token: token, AccountID: account.ID, Email: account.Email}, nil
}

// Login checks the password for email and returns a fresh token.
// An unknown email yields ErrorNotFound, a wrong password
// ErrInvalidCredentials. If ctx ends before the password is checked, the
// context error is returned.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "lookup by email failed", err)
	}

	ok, err := s.hasher.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return nil, s.internal(ctx, "issue token failed", err)
	}

	return &AuthResult{Token: token, AccountID: account.ID, Email: account.Email}, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
// Token failures come back as the token errors; a token whose subject no
// longer exists is ErrorUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.internal(ctx, "lookup by email failed", err)
	}
	return account, nil
}

// UpdateProfile replaces the first and last name of targetID. The target is
// looked up before the policy runs, so an unknown id is ErrorNotFound even
// for callers who could not have updated it.
func (s *AccountService) UpdateProfile(ctx context.Context, caller *models.Account, targetID, firstName, lastName string) (*models.Account, error) {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "lookup by id failed", err)
	}

	if !s.policy.CanUpdate(caller, target.ID, target.Email) {
		return nil, common.ErrForbidden
	}

	if err := models.ValidateNames(firstName, lastName); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateNames(ctx, target.ID, firstName, lastName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "update names failed", err)
	}
	return updated, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, caller *models.Account) (*AccountList, error) {
	if !s.policy.CanListAll(caller) {
		return nil, common.ErrForbidden
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list accounts failed", err)
	}
	if all == nil {
		all = []*models.Account{}
	}
	return &AccountList{Accounts: all, Total: len(all)}, nil
}

func (s *AccountService) GetAccount(ctx context.Context, caller *models.Account, id string) (*models.Account, error) {
	if !s.policy.CanViewOne(caller) {
		return nil, common.ErrForbidden
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "lookup by id failed", err)
	}
	return account, nil
}

// internal logs err and hides it behind common.ErrorInternal.
func (s *AccountService) internal(ctx context.Context, msg string, err error) error {
	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
