package memory

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type accountRepository struct {
	t *table[domain.Account]
}

// NewAccountRepository creates an empty in-memory repository.AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{t: newTable[domain.Account]()}
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if r.usernameTaken(account.Username, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	account.ID = primitive.NewObjectID()
	account.CreatedAt = now()
	account.UpdatedAt = account.CreatedAt
	r.t.insert(account.ID, *account)
	return account.ID, nil
}

func (r *accountRepository) usernameTaken(username string, except primitive.ObjectID) bool {
	for id, row := range r.t.rows {
		if row.Username == username && id != except {
			return true
		}
	}
	return false
}

func (r *accountRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Account, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	account, ok := r.t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	matches := r.t.filter(func(a domain.Account) bool { return a.Username == username })
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return &matches[0], nil
}

func (r *accountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(domain.Account) bool { return true }), nil
}

func (r *accountRepository) Update(_ context.Context, account *domain.Account) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[account.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.usernameTaken(account.Username, account.ID) {
		return repository.ErrDuplicateKey
	}
	stored.Username = account.Username
	stored.PasswordHash = account.PasswordHash
	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.Email = account.Email
	stored.UpdatedAt = now()
	r.t.rows[account.ID] = stored
	account.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *accountRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if _, ok := r.t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	r.t.remove(id)
	return nil
}
