package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/model"
)

var (
	treeElementsFlag bool
	treeDepthFlag    int
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree <model>",
	Short: "Render a model's spatial containment hierarchy",
	Long: `Tree prints the spatial structure of a model: project, sites, buildings,
storeys, and spaces, with storey elevations converted to metres.

Examples:
  # Show the spatial structure
  strata tree building.ifc

  # Include the elements contained in each storey and space
  strata tree building.ifc --elements

  # Only the first two levels
  strata tree building.ifc --depth 2
`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVarP(&treeElementsFlag, "elements", "e", false, "List the elements contained in each node")
	treeCmd.Flags().IntVarP(&treeDepthFlag, "depth", "d", 0, "Limit the tree to this many levels (0 = unlimited)")
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, ing, err := loadModel(ctx, args[0], false)
	if err != nil {
		return err
	}
	defer ing.Close()

	hier := result.Store.Hierarchy()
	if hier.Root == nil {
		fmt.Printf("No spatial structure found in %s\n", result.Path)
		return nil
	}

	writeTree(os.Stdout, result.Store, treeDepthFlag, treeElementsFlag)
	return nil
}

// writeTree renders the store's spatial hierarchy. maxDepth limits the
// number of levels shown, 0 means unlimited.
func writeTree(w io.Writer, st *model.Store, maxDepth int, showElements bool) {
	root := st.Hierarchy().Root
	if root == nil {
		return
	}
	fmt.Fprintln(w, nodeLabel(root, st.LengthScale(), showElements))
	writeChildren(w, st, root, "", 1, maxDepth, showElements)
}

func writeChildren(w io.Writer, st *model.Store, node *model.SpatialNode, prefix string, depth, maxDepth int, showElements bool) {
	if maxDepth > 0 && depth >= maxDepth {
		return
	}

	type row struct {
		label string
		node  *model.SpatialNode
	}
	rows := make([]row, 0, len(node.Children)+len(node.Elements))
	for _, child := range node.Children {
		rows = append(rows, row{label: nodeLabel(child, st.LengthScale(), showElements), node: child})
	}
	if showElements {
		for _, id := range node.Elements {
			rows = append(rows, row{label: elementLabel(st, id)})
		}
	}

	for i, r := range rows {
		connector, continuation := "├── ", "│   "
		if i == len(rows)-1 {
			connector, continuation = "└── ", "    "
		}
		fmt.Fprintln(w, prefix+connector+r.label)
		if r.node != nil {
			writeChildren(w, st, r.node, prefix+continuation, depth+1, maxDepth, showElements)
		}
	}
}

func nodeLabel(node *model.SpatialNode, scale float64, showElements bool) string {
	name := node.Name
	if name == "" {
		name = "(unnamed)"
	}
	label := fmt.Sprintf("%s  [%s]", name, node.Type)
	if node.Elevation != nil {
		label += fmt.Sprintf("  elev %.2fm", *node.Elevation*scale)
	}
	if !showElements {
		switch n := len(node.Elements); n {
		case 0:
		case 1:
			label += "  (1 element)"
		default:
			label += fmt.Sprintf("  (%d elements)", n)
		}
	}
	return label
}

func elementLabel(st *model.Store, id uint32) string {
	info, ok := st.Entity(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	label := fmt.Sprintf("#%d %s", info.ID, info.Type)
	if info.Name != "" {
		label += fmt.Sprintf(" %q", info.Name)
	}
	return label
}
