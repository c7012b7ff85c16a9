package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/treedoc"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the bundled test catalog and sample trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()

		if err := st.CatalogRepo().Put(ctx, catalog.SeedTests()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		fmt.Printf("Catalog: %d clinical tests installed\n", len(catalog.SeedTests()))

		trees, err := treedoc.Samples()
		if err != nil {
			return fmt.Errorf("decode sample trees: %w", err)
		}
		for _, tr := range trees {
			if err := saveTree(ctx, st, tr); err != nil {
				return err
			}
			fmt.Printf("Tree: %q (%d nodes)\n", tr.Name, tr.Len())
		}
		return nil
	},
}
