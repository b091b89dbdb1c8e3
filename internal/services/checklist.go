package services

import (
	"context"

	"github.com/nordicmaskin/kma/internal/normalize"
	"github.com/nordicmaskin/kma/types"
)

// TemplateRepository defines read and append operations for templates.
type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]types.Template, error)
	ListItems(ctx context.Context, template string) ([]types.TemplateItem, error)
	AppendTemplates(ctx context.Context, templates []types.Template, items []types.TemplateItem) error
}

// ChecklistService resolves equipment classes to checklists.
type ChecklistService struct {
	repo TemplateRepository
}

func NewChecklistService(repo TemplateRepository) *ChecklistService {
	return &ChecklistService{repo: repo}
}

// Resolve finds the template for (typ, brand, model) and its items. When
// several templates match, the first in storage order wins. A miss is not
// an error: the returned Checklist is empty.
func (s *ChecklistService) Resolve(ctx context.Context, typ, brand, model string) (types.Checklist, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return types.Checklist{}, err
	}

	key := []string{typ, brand, model}
	for _, tpl := range templates {
		if !normalize.TupleEqual([]string{tpl.Type, tpl.Brand, tpl.Model}, key) {
			continue
		}
		items, err := s.repo.ListItems(ctx, tpl.Name)
		if err != nil {
			return types.Checklist{}, err
		}
		if items == nil {
			items = []types.TemplateItem{}
		}
		return types.Checklist{Template: tpl.Name, Items: items}, nil
	}
	return types.Checklist{Items: []types.TemplateItem{}}, nil
}

// SeedResult counts what Seed appended.
type SeedResult struct {
	Templates int
	Items     int
	Skipped   []string
}

// Seed appends templates whose equipment class is not covered yet,
// together with their items. Templates for an existing class are skipped
// so the first-match rule keeps resolving to the stored one.
func (s *ChecklistService) Seed(ctx context.Context, templates []types.Template, items []types.TemplateItem) (SeedResult, error) {
	existing, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return SeedResult{}, err
	}

	covered := func(tpl types.Template) bool {
		for _, e := range existing {
			if normalize.TupleEqual(
				[]string{e.Type, e.Brand, e.Model},
				[]string{tpl.Type, tpl.Brand, tpl.Model},
			) {
				return true
			}
		}
		return false
	}

	var result SeedResult
	var newTemplates []types.Template
	accepted := make(map[string]bool)
	for _, tpl := range templates {
		if err := Required("name", tpl.Name, "type", tpl.Type, "brand", tpl.Brand, "model", tpl.Model); err != nil {
			return SeedResult{}, err
		}
		if covered(tpl) {
			result.Skipped = append(result.Skipped, tpl.Name)
			continue
		}
		existing = append(existing, tpl)
		newTemplates = append(newTemplates, tpl)
		accepted[tpl.Name] = true
	}

	var newItems []types.TemplateItem
	for _, item := range items {
		if accepted[item.Template] {
			newItems = append(newItems, item)
		}
	}

	if err := s.repo.AppendTemplates(ctx, newTemplates, newItems); err != nil {
		return SeedResult{}, err
	}
	result.Templates = len(newTemplates)
	result.Items = len(newItems)
	return result, nil
}
