package service

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/tracing"
	"context"
	"errors"
	"strings"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

func (in *RegisterInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
}

func (in RegisterInput) validate() error {
	if err := validateName("firstName", in.FirstName); err != nil {
		return err
	}
	if err := validateName("lastName", in.LastName); err != nil {
		return err
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validateUsername(in.Username); err != nil {
		return err
	}
	return validatePassword(in.Password)
}

type AuthService interface {
	// Register creates a regular account. Clients can never create admins.
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	// RegisterAdmin creates an account with isAdmin set. Only reachable from the admin CLI.
	RegisterAdmin(ctx context.Context, input RegisterInput) (*domain.Account, error)
	// Authenticate returns ErrAuthenticationFailed for both an unknown username and a wrong password.
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	// SessionAccount returns the account a session belongs to, or ErrUnauthenticated once it is gone.
	SessionAccount(ctx context.Context, userID string) (*domain.Account, error)
}

// authService implements the AuthService interface.
type authService struct {
	accountRepo repository.AccountRepository
	hasher      PasswordHasher
}

// NewAuthService creates a new instance of authService.
func NewAuthService(accountRepo repository.AccountRepository, hasher PasswordHasher) AuthService {
	return &authService{
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	return s.register(ctx, input, false)
}

func (s *authService) RegisterAdmin(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	return s.register(ctx, input, true)
}

func (s *authService) register(ctx context.Context, input RegisterInput, isAdmin bool) (*domain.Account, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		IsAdmin:      isAdmin,
		// ID, CreatedAt, UpdatedAt will be set by the repository layer
	}

	// The unique username index decides races between concurrent registrations
	accountID, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	account.ID = accountID

	account.PasswordHash = ""
	return account, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (_ *domain.Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Hash and compare on every attempt so an unknown username costs the same as a wrong password.
	dummyHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	hash := dummyHash
	if account != nil {
		hash = account.PasswordHash
	}
	passwordMatch := s.hasher.Compare(hash, password) == nil

	if account == nil || !passwordMatch {
		return nil, ErrAuthenticationFailed
	}

	account.PasswordHash = ""
	return account, nil
}

func (s *authService) SessionAccount(ctx context.Context, userID string) (*domain.Account, error) {
	accountID, err := parseID(userID, ErrUnauthenticated)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	account.PasswordHash = ""
	return account, nil
}
