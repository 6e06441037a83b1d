package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <type> <bbid>",
	Short: "Print an entity at its master revision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}

		page, err := api.GetEntity(cmd.Context(), t, args[1])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), page.Title)
		return printJSON(cmd, page)
	},
}

var (
	revisionsFrom int
	revisionsSize int
)

var revisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "List recent revisions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		revisions, err := api.ListRevisions(cmd.Context(), revisionsFrom, revisionsSize)
		if err != nil {
			return err
		}

		for _, revision := range revisions {
			if revision.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "-")
				continue
			}

			name := ""
			if revision.AliasSummary != nil {
				name = revision.Name
			}
			editor := ""
			if revision.Editor != nil {
				editor = revision.Editor.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\t%s\t%s\n", revision.RevisionID, revision.CreatedAt.Format("2006-01-02 15:04"), revision.Type, name, editor)
		}
		return nil
	},
}

func init() {
	revisionsCmd.Flags().IntVar(&revisionsFrom, "from", 0, "Offset of the first revision")
	revisionsCmd.Flags().IntVar(&revisionsSize, "size", 20, "Number of revisions (1-100)")
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
