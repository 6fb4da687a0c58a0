// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"builder-network/pkg/registry"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, exportCmd} {
		fs.StringVar(&catalogPath, "path", "configs/option-catalog.json", "Path to catalog file")
	}

	// Add command flags
	sectionAdd := addCmd.String("section", "", "Section ID (e.g., expertise)")
	keyAdd := addCmd.String("key", "", "Option key sent in the payload (e.g., metalRoofing)")
	labelAdd := addCmd.String("label", "", "Label shown on the form and in the staff email")
	titleAdd := addCmd.String("title", "", "Section title, used when the section does not exist yet")

	// Update command flags
	sectionUpdate := updateCmd.String("section", "", "Section ID to update")
	keyUpdate := updateCmd.String("key", "", "Option key to update; empty updates the section itself")
	field := updateCmd.String("field", "", "Field to update (label, title)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *sectionAdd == "" || *keyAdd == "" {
			fmt.Println("Error: section and key are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		opt := registry.Option{Key: *keyAdd, Label: *labelAdd}
		if err := addOption(*sectionAdd, *titleAdd, opt); err != nil {
			fmt.Printf("Error adding option: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added option %s to section %s\n", *keyAdd, *sectionAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *sectionUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: section, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := update(*sectionUpdate, *keyUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %s %s, field %s to %s\n", *sectionUpdate, *keyUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := saveCatalog(registry.Default(), catalogPath); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote built-in catalog to %s\n", catalogPath)

	case "help":
		fallthrough
	default:
		help()
	}
}

// loadOrDefault starts from the built-in catalog when the file does not exist yet.
func loadOrDefault() (*registry.Catalog, error) {
	cat, err := registry.Load(catalogPath)
	if errors.Is(err, os.ErrNotExist) {
		return registry.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func addOption(sectionID, title string, opt registry.Option) error {
	cat, err := loadOrDefault()
	if err != nil {
		return err
	}

	idx := sectionIndex(cat, sectionID)
	if idx < 0 {
		if title == "" {
			title = registry.Humanize(sectionID)
		}
		cat.Sections = append(cat.Sections, registry.Section{ID: sectionID, Title: title})
		idx = len(cat.Sections) - 1
	}

	if cat.HasOption(sectionID, opt.Key) {
		return fmt.Errorf("option %s already exists in section %s", opt.Key, sectionID)
	}
	cat.Sections[idx].Options = append(cat.Sections[idx].Options, opt)

	return saveCatalog(cat, catalogPath)
}

func update(sectionID, key, field, value string) error {
	cat, err := loadOrDefault()
	if err != nil {
		return err
	}

	idx := sectionIndex(cat, sectionID)
	if idx < 0 {
		return fmt.Errorf("section %s not found", sectionID)
	}
	section := &cat.Sections[idx]

	if key == "" {
		switch field {
		case "title":
			section.Title = value
		default:
			return fmt.Errorf("unknown section field: %s", field)
		}
		return saveCatalog(cat, catalogPath)
	}

	found := false
	for i := range section.Options {
		if section.Options[i].Key != key {
			continue
		}
		found = true
		switch field {
		case "label":
			section.Options[i].Label = value
		default:
			return fmt.Errorf("unknown option field: %s", field)
		}
		break
	}
	if !found {
		return fmt.Errorf("option %s not found in section %s", key, sectionID)
	}

	return saveCatalog(cat, catalogPath)
}

func validateCatalog() error {
	cat, err := registry.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, required := range []string{registry.SectionExpertise, registry.SectionBuildingStandards} {
		if sectionIndex(cat, required) < 0 {
			return fmt.Errorf("catalog is missing section %s", required)
		}
	}

	options := 0
	for _, s := range cat.Sections {
		options += len(s.Options)
		for _, o := range s.Options {
			if o.Label == "" {
				fmt.Printf("warning: %s.%s has no label, the form will show %q\n", s.ID, o.Key, registry.Humanize(o.Key))
			}
		}
	}

	fmt.Printf("Found %d sections and %d options.\n", len(cat.Sections), options)
	return nil
}

func sectionIndex(cat *registry.Catalog, id string) int {
	for i, s := range cat.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// saveCatalog validates before writing so a broken catalog never reaches disk.
func saveCatalog(cat *registry.Catalog, path string) error {
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid catalog: %w", err)
	}
	cat.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add an option (and its section, if new) to the catalog
  update   Change a section title or an option label
  validate Validate the catalog file
  export   Write the built-in catalog to -path
  help     Show this help message

Examples:
  registry-updater export -path configs/option-catalog.json
  registry-updater add -section expertise -key metalRoofing -label "Metal Roofing"
  registry-updater update -section buildingStandards -key ibc -field label -value "IBC 2021"
  registry-updater update -section expertise -field title -value "Expertise"
  registry-updater validate -path configs/option-catalog.json

Use 'registry-updater <command> -h' for more information about a command.

`)
}
