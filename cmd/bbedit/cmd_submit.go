package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/form"
)

var draftPath string

var createCmd = &cobra.Command{
	Use:   "create <type>",
	Short: "Create an entity from a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		return submit(cmd, form.Target{Type: t})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <type> <bbid>",
	Short: "Edit an entity; draft sections replace the current values",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		return submit(cmd, form.Target{Type: t, BBID: args[1]})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{createCmd, editCmd} {
		cmd.Flags().StringVarP(&draftPath, "file", "f", "", "YAML draft file")
		_ = cmd.MarkFlagRequired("file")
	}
}

// parseType accepts both "EditionGroup" and "edition-group".
func parseType(name string) (entity.Type, error) {
	if t, err := entity.ParseType(name); err == nil {
		return t, nil
	}
	return entity.ParseKebab(strings.ToLower(name))
}

// printNavigator reports the page the wizard sends the editor to.
type printNavigator struct {
	cmd         *cobra.Command
	baseURL     string
	destination string
}

func (navigator *printNavigator) Navigate(path string) {
	navigator.destination = path
	fmt.Fprintln(navigator.cmd.OutOrStdout(), navigator.baseURL+path)
}

// submit runs one wizard session for target with the draft file.
func submit(cmd *cobra.Command, target form.Target) error {
	ctx := cmd.Context()

	draft, err := LoadDraft(draftPath)
	if err != nil {
		return err
	}

	wizard, navigator, err := newWizard(ctx, cmd, target)
	if err != nil {
		return err
	}

	if err := draft.Apply(wizard); err != nil {
		return err
	}

	// Visit every tab so that each step is validated.
	for range form.Steps {
		wizard.Next()
	}
	if !wizard.SubmitEnabled() {
		var invalid []string
		for _, step := range form.Steps {
			if !wizard.Valid(step) {
				invalid = append(invalid, string(step))
			}
		}
		return fmt.Errorf("draft is not valid: check the %s step(s)", strings.Join(invalid, ", "))
	}

	logger.Debug("submission_started", slog.String("entity_type", string(target.Type)), slog.String("bbid", target.BBID))

	if err := wizard.Submit(ctx); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	if navigator.destination == cfg.LoginPath {
		return errors.New("not authenticated: set LIBRIS_TOKEN or pass --token")
	}

	return nil
}

// newWizard loads the reference data (and the entity when editing) and wires a wizard.
func newWizard(ctx context.Context, cmd *cobra.Command, target form.Target) (*form.Wizard, *printNavigator, error) {
	identifierTypes, err := api.ListIdentifierTypes(ctx, target.Type, target.BBID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load identifier types: %w", err)
	}

	var prefill *entity.Entity
	if target.BBID != "" {
		page, err := api.GetEntity(ctx, target.Type, target.BBID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s %s: %w", target.Type, target.BBID, err)
		}
		prefill = page.Entity
	}

	navigator := &printNavigator{cmd: cmd, baseURL: cfg.APIURL}
	wizard := form.New(form.Config{
		Target: target,
		References: form.References{
			IdentifierTypes: identifierTypes,
			Editing:         target.BBID != "",
		},
		Transport: api,
		Navigator: navigator,
		LoginPath: cfg.LoginPath,
	}, prefill)

	return wizard, navigator, nil
}
