package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/search"
)

var (
	searchLimitFlag  int
	searchTypeFlag   string
	searchStoreyFlag string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <model> <query>...",
	Short: "Full-text search over a model's entities",
	Long: `Search runs a keyword query against the named entities of a model file.

The query supports field scoping (name:wall), boolean operators (+required
-excluded), phrase search ("fire door"), wildcards (wal*), and fuzzy
matching (wall~1). Matches rank by relevance.

Examples:
  # Find walls by name
  strata search building.ifc wall

  # Restrict to a type and a storey
  strata search building.ifc door --type IFCDOOR --storey "Level 2"

  # Field-scoped query
  strata search building.ifc 'name:Wall-Ext*'
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "n", 15, "Maximum number of results")
	searchCmd.Flags().StringVarP(&searchTypeFlag, "type", "t", "", "Exact entity type filter, e.g. IFCWALL")
	searchCmd.Flags().StringVarP(&searchStoreyFlag, "storey", "s", "", "Match against the enclosing storey path")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, ing, err := loadModel(ctx, args[0], true)
	if err != nil {
		return err
	}
	defer ing.Close()
	defer result.Searcher.Close()

	queryStr := strings.Join(args[1:], " ")
	hits, err := result.Searcher.Search(ctx, queryStr, &search.Options{
		Limit:  searchLimitFlag,
		Type:   searchTypeFlag,
		Storey: searchStoreyFlag,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Printf("No matches for %q in %s\n", queryStr, result.Path)
		return nil
	}

	for i, hit := range hits {
		name := hit.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%2d. #%d %s %q (score %.2f)\n", i+1, hit.ID, hit.Type, name, hit.Score)
		if hit.Storey != "" {
			fmt.Printf("    %s\n", hit.Storey)
		}
	}
	fmt.Printf("\n%d of %s entities matched\n", len(hits), formatNumber(result.Store.Table().Len()))

	return nil
}
