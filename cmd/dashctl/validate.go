package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/lovelace"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]",
		Short: "Parse a Lovelace document and list its views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}

			doc, err := lovelace.New().ParseDocument(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if doc.Strategy != nil {
				fmt.Fprintf(out, "%s: strategy dashboard (%v)\n", args[0], doc.Strategy["type"])
				return nil
			}
			fmt.Fprintf(out, "%s: %d views\n", args[0], len(doc.Views))
			for i, v := range doc.Views {
				cards := len(v.RawCards)
				if v.Layout == dashboard.LayoutSections {
					cards = len(v.RawSections)
				}
				fmt.Fprintf(out, "  [%d] %-20q %-9s %d\n", i, v.Title, v.Layout, cards)
			}
			return nil
		},
	}
}
