package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autofill-agent/internal/di"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/infrastructure/page/htmldom"
)

type classifyFlags struct {
	url     string
	profile string
	htmlOut string
}

type classifiedView struct {
	Ref        string            `json:"ref"`
	Tag        entity.FieldTag   `json:"tag"`
	Capability entity.Capability `json:"capability"`
	Source     string            `json:"source"`
	Kind       string            `json:"kind"`
	Name       string            `json:"name,omitempty"`
	ID         string            `json:"id,omitempty"`
	Label      string            `json:"label,omitempty"`
}

type classifyReport struct {
	Site    string              `json:"site"`
	Fields  []classifiedView    `json:"fields"`
	Outcome *entity.FillOutcome `json:"outcome,omitempty"`
}

func newClassifyCmd(root *rootFlags) *cobra.Command {
	flags := &classifyFlags{}
	cmd := &cobra.Command{
		Use:   "classify <file.html>",
		Short: "Classify a saved HTML form offline and optionally simulate a fill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, root, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.url, "url", "https://localhost/apply", "URL the document is treated as loaded from")
	f.StringVar(&flags.profile, "profile", "", "profile JSON file; when set the form is filled")
	f.StringVar(&flags.htmlOut, "html-out", "", "write the filled document to this path")
	return cmd
}

func runClassify(cmd *cobra.Command, root *rootFlags, flags *classifyFlags, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	cfg := loadConfig(cmd, root)
	cfg.WithBrowser = false
	// a parsed document never changes on its own
	cfg.Autofill.RetryDelay = 0
	cfg.Autofill.ValidationDelay = 0
	cfg.Filler.VerifyDelay = 0
	cfg.Dropdown.PollDelay = 0

	ctx := cmd.Context()
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	page, err := htmldom.Parse(flags.url, string(src))
	if err != nil {
		return err
	}

	site := container.Classifier.DetectSite(ctx, page)
	items, err := container.Classifier.Classify(ctx, page, site)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	report := classifyReport{Site: site.Name, Fields: make([]classifiedView, 0, len(items))}
	for _, it := range items {
		report.Fields = append(report.Fields, classifiedView{
			Ref:        it.Ref(),
			Tag:        it.Tag,
			Capability: it.Capability,
			Source:     string(it.Source),
			Kind:       string(it.Info.Kind),
			Name:       it.Info.Name,
			ID:         it.Info.ID,
			Label:      it.Info.Label,
		})
	}

	if flags.profile != "" {
		p, err := readProfile(flags.profile)
		if err != nil {
			return err
		}
		report.Outcome = container.Autofiller.Autofill(ctx, page, *p)

		if flags.htmlOut != "" {
			if err := os.WriteFile(flags.htmlOut, []byte(page.HTML()), 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
		}
	}

	return printJSON(cmd.OutOrStdout(), report)
}
