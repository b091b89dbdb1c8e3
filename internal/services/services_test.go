package services

import (
	"testing"

	"github.com/nordicmaskin/kma/internal/store"
	"github.com/nordicmaskin/kma/internal/tabular"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	backend    *tabular.MemoryBackend
	users      *UserService
	equipment  *EquipmentService
	checklists *ChecklistService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := tabular.NewMemoryBackend()
	tables := tabular.NewStore(backend)
	return fixture{
		backend:    backend,
		users:      NewUserService(store.NewUserRepository(tables)).WithHashCost(bcrypt.MinCost),
		equipment:  NewEquipmentService(store.NewEquipmentRepository(tables)),
		checklists: NewChecklistService(store.NewTemplateRepository(tables)),
	}
}
