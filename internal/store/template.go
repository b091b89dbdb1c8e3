package store

import (
	"context"

	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
)

// TemplateRepository reads and extends the Templates and TemplateItems tables.
type TemplateRepository struct {
	tables *tabular.Store
}

func NewTemplateRepository(tables *tabular.Store) *TemplateRepository {
	return &TemplateRepository{tables: tables}
}

// ListTemplates returns all templates in storage order.
func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]types.Template, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableTemplates)
	if err != nil {
		return nil, err
	}
	templates := make([]types.Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, types.Template{
			Name:  row.Get("Template"),
			Type:  row.Get("Type"),
			Brand: row.Get("Brand"),
			Model: row.Get("Model"),
		})
	}
	return templates, nil
}

// ListItems returns the items of a template in storage order. The
// template name is matched exactly.
func (r *TemplateRepository) ListItems(ctx context.Context, template string) ([]types.TemplateItem, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableTemplateItems)
	if err != nil {
		return nil, err
	}
	var items []types.TemplateItem
	for _, row := range rows {
		if row.Get("Template") != template {
			continue
		}
		items = append(items, types.TemplateItem{
			Template:    row.Get("Template"),
			Item:        row.Get("Item"),
			Instruction: row.Get("Instruction"),
		})
	}
	return items, nil
}

// AppendTemplates adds templates and items at the end of their tables.
func (r *TemplateRepository) AppendTemplates(ctx context.Context, templates []types.Template, items []types.TemplateItem) error {
	if len(templates) > 0 {
		rows, err := r.tables.ReadTable(ctx, tabular.TableTemplates)
		if err != nil {
			return err
		}
		for _, tpl := range templates {
			rows = append(rows, tabular.Row{
				"Template": tpl.Name,
				"Type":     tpl.Type,
				"Brand":    tpl.Brand,
				"Model":    tpl.Model,
			})
		}
		if err := r.tables.WriteTable(ctx, tabular.TableTemplates, rows); err != nil {
			return err
		}
	}

	if len(items) > 0 {
		rows, err := r.tables.ReadTable(ctx, tabular.TableTemplateItems)
		if err != nil {
			return err
		}
		for _, item := range items {
			rows = append(rows, tabular.Row{
				"Template":    item.Template,
				"Item":        item.Item,
				"Instruction": item.Instruction,
			})
		}
		if err := r.tables.WriteTable(ctx, tabular.TableTemplateItems, rows); err != nil {
			return err
		}
	}
	return nil
}
