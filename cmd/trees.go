package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List the stored decision trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		recs, err := st.TreeRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list trees: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No trees stored. Run `arbor seed` to install the samples.")
			return nil
		}

		for _, rec := range recs {
			access := "premium"
			if rec.Free {
				access = "free"
			}
			fmt.Printf("%-24s  %-20s  %-8s  %s\n", rec.ID, rec.Name, access, rec.Category)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <tree-id>",
	Short: "Delete a stored tree and all its nodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.TreeRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete tree %s: %w", args[0], err)
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}
