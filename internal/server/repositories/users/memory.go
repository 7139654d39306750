package users

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// MemoryRepository is a map-backed store used by tests and the "memory"
// storage driver for local development. Scans walk ids in sorted order so
// cursor continuation behaves like the keyset backends.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[user.UserID] = *user
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) List(ctx context.Context, limit int32, cursor string) ([]*models.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var result []*models.User
	for _, id := range ids {
		if len(result) == int(limit) {
			// More records remain; continue from the last returned id.
			return result, result[len(result)-1].UserID, nil
		}
		u := r.items[id]
		result = append(result, &u)
	}
	return result, "", nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, userID)
	return nil
}
