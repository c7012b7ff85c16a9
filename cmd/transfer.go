package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/store"
	"github.com/orthodx/arbor/internal/treedoc"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a tree document into the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		tr, err := treedoc.Decode(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := saveTree(cmd.Context(), st, tr); err != nil {
			return err
		}
		fmt.Printf("Imported %q (%d nodes) as %s\n", tr.Name, tr.Len(), tr.ID)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <tree-id>",
	Short: "Export a stored tree as a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		rec, rows, err := st.TreeRepo().Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load tree %s: %w", args[0], err)
		}
		tr, err := decisiontree.Build(rec, rows)
		if err != nil {
			return fmt.Errorf("rebuild tree %s: %w", args[0], err)
		}
		data, err := treedoc.Encode(tr)
		if err != nil {
			return fmt.Errorf("encode tree %s: %w", args[0], err)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Println("Exported to", out)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Check a tree document without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		tr, err := treedoc.Decode(data)
		if err != nil {
			return fmt.Errorf("invalid document: %w", err)
		}

		dangling := 0
		tr.Walk(func(n *decisiontree.Node) {
			for _, a := range n.Answers {
				if a.Target == nil {
					dangling++
				}
			}
		})

		fmt.Printf("OK: %q, %d nodes", tr.Name, tr.Len())
		if dangling > 0 {
			fmt.Printf(", %d dangling branch(es)", dangling)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
}

// saveTree flattens and persists a built tree.
func saveTree(ctx context.Context, st *store.Store, tr *decisiontree.Tree) error {
	rows, err := tr.Flatten()
	if err != nil {
		return fmt.Errorf("flatten tree %s: %w", tr.ID, err)
	}
	if err := st.TreeRepo().Save(ctx, tr.Record(), rows); err != nil {
		return fmt.Errorf("save tree %s: %w", tr.ID, err)
	}
	return nil
}
