package service

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"
	"errors"
	"strings"
)

// AccountPatch holds the account fields present in a PATCH body. Nil means absent.
type AccountPatch struct {
	Username  *string
	Password  *string
	FirstName *string
	LastName  *string
	Email     *string
}

func (p AccountPatch) empty() bool {
	return p.Username == nil && p.Password == nil && p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// AccountService is the admin-only account management surface.
type AccountService interface {
	List(ctx context.Context, actor Actor) ([]domain.Account, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Account, error)
	// Update applies patch and reports whether anything was written.
	Update(ctx context.Context, actor Actor, id string, patch AccountPatch) (bool, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type accountService struct {
	accountRepo repository.AccountRepository
	hasher      PasswordHasher
}

func NewAccountService(accountRepo repository.AccountRepository, hasher PasswordHasher) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func (s *accountService) List(ctx context.Context, actor Actor) ([]domain.Account, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.accountRepo.List(ctx)
}

func (s *accountService) Get(ctx context.Context, actor Actor, id string) (*domain.Account, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *accountService) load(ctx context.Context, id string) (*domain.Account, error) {
	accountID, err := parseID(id, ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) Update(ctx context.Context, actor Actor, id string, patch AccountPatch) (bool, error) {
	if err := RequireAdmin(actor); err != nil {
		return false, err
	}
	if patch.empty() {
		return false, invalid("no updatable account field present")
	}

	account, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}

	changed := false
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if err := validateUsername(username); err != nil {
			return false, err
		}
		changed = changed || username != account.Username
		account.Username = username
	}
	if patch.FirstName != nil {
		name := strings.TrimSpace(*patch.FirstName)
		if err := validateName("firstName", name); err != nil {
			return false, err
		}
		changed = changed || name != account.FirstName
		account.FirstName = name
	}
	if patch.LastName != nil {
		name := strings.TrimSpace(*patch.LastName)
		if err := validateName("lastName", name); err != nil {
			return false, err
		}
		changed = changed || name != account.LastName
		account.LastName = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := validateEmail(email); err != nil {
			return false, err
		}
		changed = changed || email != account.Email
		account.Email = email
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return false, err
		}
		// The stored value is a hash, so "unchanged" means the new password already matches it
		if s.hasher.Compare(account.PasswordHash, *patch.Password) != nil {
			hashed, err := s.hasher.Hash(*patch.Password)
			if err != nil {
				return false, err
			}
			account.PasswordHash = hashed
			changed = true
		}
	}

	if !changed {
		return false, nil
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return false, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return false, ErrAccountNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *accountService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	accountID, err := parseID(id, ErrAccountNotFound)
	if err != nil {
		return err
	}
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}
