package idp

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userdir/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps bcrypt-hashed accounts in memory. It backs the
// "memory" storage driver in development, where no user pool is configured.
type LocalProvider struct {
	mu       sync.Mutex
	accounts map[string]localAccount
}

type localAccount struct {
	role         models.Role
	passwordHash []byte
}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{accounts: make(map[string]localAccount)}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, username string, role models.Role, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[username]; ok {
		return fmt.Errorf("account already exists: %s", username)
	}
	p.accounts[username] = localAccount{role: role, passwordHash: hash}
	return nil
}

func (p *LocalProvider) DeleteAccount(ctx context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.accounts, username)
	return nil
}

// VerifyPassword checks a candidate password against the stored hash.
// Not used by the request path (token verification happens upstream); kept
// for local tooling that logs in against the development provider.
func (p *LocalProvider) VerifyPassword(username, password string) bool {
	p.mu.Lock()
	acc, ok := p.accounts[username]
	p.mu.Unlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) == nil
}
