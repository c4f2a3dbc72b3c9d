// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-sync/internal/render"
	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <author-id>",
	Short: "Export an author's stored papers as CSL-YAML",
	Long: `Export writes the stored papers of one configured author as a CSL-YAML
bibliography, usable with Pandoc and reference managers. Only papers within
the configured year range are exported unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().Bool("all", false, "include papers outside the configured year range")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	author, ok := findAuthor(rt.Config.Authors, args[0])
	if !ok {
		return fmt.Errorf("author %q is not configured", args[0])
	}
	output, _ := cmd.Flags().GetString("output")
	all, _ := cmd.Flags().GetBool("all")

	st, err := store.Open(rt.Config.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Load(cmd.Context(), author)
	if err != nil {
		return err
	}
	if all {
		records = store.SortByYear(records)
	} else {
		records = visible(rt.Config, records)
	}

	if output == "" {
		return render.FormatCSL(records, cmd.OutOrStdout())
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := render.FormatCSL(records, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	rt.Log.Info().Str("author", author.Name).Str("path", output).Int("papers", len(records)).Msg("bibliography written")
	return nil
}

func findAuthor(authors []types.Author, id string) (types.Author, bool) {
	for _, a := range authors {
		if a.ID == id {
			return a, true
		}
	}
	return types.Author{}, false
}
