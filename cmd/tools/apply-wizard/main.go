// cmd/tools/apply-wizard/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"builder-network/internal/common/logger"
	"builder-network/internal/wizard"
	"builder-network/pkg/registry"
)

// draftFile is the YAML shape of a prepared application. Flag sections list
// the option keys to check.
type draftFile struct {
	Fields            map[string]string   `yaml:"fields"`
	Projects          []map[string]string `yaml:"projects"`
	References        []map[string]string `yaml:"references"`
	Certifications    []string            `yaml:"certifications"`
	Expertise         []string            `yaml:"expertise"`
	BuildingStandards []string            `yaml:"buildingStandards"`
}

func main() {
	draftPath := flag.String("draft", "", "Path to a YAML draft")
	server := flag.String("server", "http://localhost:8080", "Application server base URL")
	catalogPath := flag.String("catalog", "", "Optional option catalog override")
	timeout := flag.Duration("timeout", 30*time.Second, "Submit timeout")
	dryRun := flag.Bool("dry-run", false, "Walk the steps and print the payload without submitting")
	flag.Parse()

	if *draftPath == "" {
		fmt.Println("Error: -draft is required.")
		flag.Usage()
		os.Exit(1)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	catalog, err := registry.Load(*catalogPath)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	draft, err := readDraft(*draftPath)
	if err != nil {
		fmt.Printf("Error reading draft: %v\n", err)
		os.Exit(1)
	}

	ctrl := wizard.NewController(wizard.NewHTTPSubmitter(*server, *timeout), catalog, log)
	if err := fill(ctrl, draft); err != nil {
		fmt.Printf("Error filling form: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Printf("[%3.0f%%] Step %d: %s\n", ctrl.Progress(), ctrl.Step(), ctrl.StepTitle())
		if ctrl.IsLastStep() {
			break
		}
		ctrl.Next()
	}
	for _, section := range []string{registry.SectionExpertise, registry.SectionBuildingStandards} {
		fmt.Printf("%s: %v\n", catalog.Title(section), ctrl.SelectedFlags(section))
	}

	if *dryRun {
		out, _ := json.MarshalIndent(ctrl.Payload(), "", "  ")
		fmt.Println(string(out))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	notice, err := ctrl.Submit(ctx)
	fmt.Println(notice.Message)
	if err != nil {
		os.Exit(1)
	}
}

func readDraft(path string) (*draftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d draftFile
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &d, nil
}

func fill(ctrl *wizard.Controller, d *draftFile) error {
	for _, name := range sortedKeys(d.Fields) {
		if err := ctrl.UpdateField(name, d.Fields[name]); err != nil {
			return err
		}
	}
	for i, p := range d.Projects {
		for _, name := range sortedKeys(p) {
			if err := ctrl.UpdateProject(i, name, p[name]); err != nil {
				return err
			}
		}
	}
	for i, r := range d.References {
		for _, name := range sortedKeys(r) {
			if err := ctrl.UpdateReference(i, name, r[name]); err != nil {
				return err
			}
		}
	}
	for i, c := range d.Certifications {
		if err := ctrl.UpdateCertification(i, c); err != nil {
			return err
		}
	}
	for _, key := range d.Expertise {
		if err := ctrl.ToggleFlag(registry.SectionExpertise, key); err != nil {
			return err
		}
	}
	for _, key := range d.BuildingStandards {
		if err := ctrl.ToggleFlag(registry.SectionBuildingStandards, key); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
