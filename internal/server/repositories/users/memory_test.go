package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

func seedMemory(t *testing.T, repo *MemoryRepository, n int) map[string]bool {
	t.Helper()
	ids := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			UserID:    fmt.Sprintf("id-%03d", i),
			Username:  fmt.Sprintf("user%03d", i),
			Role:      models.RoleUser,
			CreatedAt: 1700000000000,
			UpdatedAt: 1700000000000,
		}
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("Create error: %v", err)
		}
		ids[u.UserID] = false
	}
	return ids
}

func TestMemory_GetByIDAndUsername(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	seedMemory(t, repo, 3)

	u, err := repo.GetByID(context.Background(), "id-001")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if u.Username != "user001" {
		t.Fatalf("unexpected user: %+v", u)
	}

	u, err = repo.GetByUsername(context.Background(), "user002")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if u.UserID != "id-002" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

// 25 seeded records paged with limit 10 must come back exactly once each
// across three pages, the last page without a cursor. Order is not asserted.
func TestMemory_PaginationComplete(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	seen := seedMemory(t, repo, 25)

	cursor := ""
	pages := 0
	total := 0
	for {
		page, next, err := repo.List(context.Background(), 10, cursor)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		pages++
		total += len(page)

		for _, u := range page {
			already, ok := seen[u.UserID]
			if !ok {
				t.Fatalf("unexpected record %q", u.UserID)
			}
			if already {
				t.Fatalf("record %q returned twice", u.UserID)
			}
			seen[u.UserID] = true
		}

		if next == "" {
			break
		}
		cursor = next
	}

	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	for id, got := range seen {
		if !got {
			t.Fatalf("record %q never returned", id)
		}
	}
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	seedMemory(t, repo, 1)

	if err := repo.Delete(context.Background(), "id-000"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "id-000"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("record still present after delete")
	}
	if err := repo.Delete(context.Background(), "id-000"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
