/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/server"
	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/internal/store"
	"github.com/nordicmaskin/kma/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by kma seed.
type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	types.Template `yaml:",inline"`
	Items          []types.TemplateItem `yaml:"items"`
}

// parseSeed decodes a seed document into template and item rows.
func parseSeed(r io.Reader) ([]types.Template, []types.TemplateItem, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode seed file: %w", err)
	}

	var (
		templates []types.Template
		items     []types.TemplateItem
	)
	for _, tpl := range doc.Templates {
		tpl.Name = strings.TrimSpace(tpl.Name)
		templates = append(templates, tpl.Template)
		for _, item := range tpl.Items {
			item.Template = tpl.Name
			items = append(items, item)
		}
	}
	return templates, items, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load checklist templates from a YAML file",
	Long: `Appends the templates and checklist items of FILE to the store.
Templates for an equipment class that already has one are skipped.

	kma seed templates.yaml
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		templates, items, err := parseSeed(f)
		if err != nil {
			return err
		}

		cfg := config.LoadConfig()
		tables, err := server.OpenTables(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer tables.Close()

		checklists := services.NewChecklistService(store.NewTemplateRepository(tables.Store))
		res, err := checklists.Seed(cmd.Context(), templates, items)
		if err != nil {
			return err
		}

		logger.Info("seed loaded",
			zap.Int("templates", res.Templates),
			zap.Int("items", res.Items),
			zap.Strings("skipped", res.Skipped),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
