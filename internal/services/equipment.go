package services

import (
	"context"
	"sort"
	"strings"

	"github.com/nordicmaskin/kma/internal/normalize"
	"github.com/nordicmaskin/kma/types"
)

// EquipmentRepository defines persistence operations for equipment.
type EquipmentRepository interface {
	List(ctx context.Context) ([]types.Equipment, error)
	Upsert(ctx context.Context, eq types.Equipment) (bool, error)
}

// EquipmentService is the equipment catalog: upsert by identity and the
// cascading Type → Brand → Model → Serial selection lists.
type EquipmentService struct {
	repo EquipmentRepository
}

func NewEquipmentService(repo EquipmentRepository) *EquipmentService {
	return &EquipmentService{repo: repo}
}

// Upsert registers eq or, when its identity already exists, replaces
// that unit's Notes.
func (s *EquipmentService) Upsert(ctx context.Context, eq types.Equipment) error {
	if err := Required("type", eq.Type, "brand", eq.Brand, "model", eq.Model, "serial", eq.Serial); err != nil {
		return err
	}
	_, err := s.repo.Upsert(ctx, eq)
	return err
}

// Exists reports whether a unit with the same normalized identity is stored.
func (s *EquipmentService) Exists(ctx context.Context, eq types.Equipment) (bool, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if normalize.TupleEqual(item.Identity(), eq.Identity()) {
			return true, nil
		}
	}
	return false, nil
}

func (s *EquipmentService) Types(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, nil, func(e types.Equipment) string { return e.Type })
}

func (s *EquipmentService) Brands(ctx context.Context, typ string) ([]string, error) {
	return s.distinct(ctx, []string{typ}, func(e types.Equipment) string { return e.Brand })
}

func (s *EquipmentService) Models(ctx context.Context, typ, brand string) ([]string, error) {
	return s.distinct(ctx, []string{typ, brand}, func(e types.Equipment) string { return e.Model })
}

func (s *EquipmentService) Serials(ctx context.Context, typ, brand, model string) ([]string, error) {
	return s.distinct(ctx, []string{typ, brand, model}, func(e types.Equipment) string { return e.Serial })
}

// distinct projects field over the units whose leading identity fields
// match parents. Any blank parent selection yields an empty list.
func (s *EquipmentService) distinct(ctx context.Context, parents []string, field func(types.Equipment) string) ([]string, error) {
	for _, p := range parents {
		if strings.TrimSpace(p) == "" {
			return []string{}, nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	values := []string{}
	for _, item := range items {
		if !normalize.TupleEqual(item.Identity()[:len(parents)], parents) {
			continue
		}
		v := field(item)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
