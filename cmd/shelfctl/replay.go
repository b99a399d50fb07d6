package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/stats"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	replayFormat  string
	replayOptions stats.FilterOptions
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Apply a list of actions to a fresh store and print the report",
	Long: `Reads a yaml list of actions such as

  - type: ADD_TO_CART
    payload: {id: 1}
  - type: UPDATE_CART_QUANTITY
    payload: {itemId: 1, quantity: 3}
  - type: TOGGLE_THEME

and applies them in order. Items given only by id are looked up in the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayFormat, "format", "text", "output format: text or json")
	replayCmd.Flags().StringVar(&replayOptions.Query, "query", "", "favorites search query")
	replayCmd.Flags().StringVar(&replayOptions.Category, "category", stats.AllCategories, "favorites category filter")
	replayCmd.Flags().StringVar(&replayOptions.CartQuery, "cart-query", "", "cart search query")
}

type scriptStep struct {
	Type    store.ActionType `yaml:"type"`
	Payload yaml.Node        `yaml:"payload"`
}

func parseScript(r io.Reader, c *catalog.Catalog) ([]store.Action, error) {
	var steps []scriptStep
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse script")
	}
	actions := make([]store.Action, 0, len(steps))
	for i, step := range steps {
		action, err := store.DecodeActionWith(step.Type, func(v any) error {
			if step.Payload.Kind == 0 {
				return errors.Errorf("action %s requires a payload", step.Type)
			}
			return step.Payload.Decode(v)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i+1)
		}
		if action, err = c.ResolveAction(action); err != nil {
			return nil, errors.Wrapf(err, "step %d", i+1)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func replay(actions []store.Action) store.Snapshot {
	s := store.NewStore()
	for _, a := range actions {
		s.Dispatch(a)
	}
	return s.Snapshot()
}

func writeReport(w io.Writer, report stats.Report, format string) error {
	switch format {
	case "json":
		data, err := jsoncompat.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text":
		fmt.Fprintf(w, "version:      %d\n", report.Version)
		fmt.Fprintf(w, "theme:        %s\n", report.Theme)
		fmt.Fprintf(w, "cart:         %d items, %d products, total %.2f, average %.2f\n",
			report.Cart.TotalItems, report.Cart.UniqueProducts, report.Cart.TotalValue, report.Cart.AveragePrice)
		fmt.Fprintf(w, "favorites:    %d", report.Favorites.TotalFavorites)
		if report.Favorites.TopCategory != "" {
			fmt.Fprintf(w, ", top category %s", report.Favorites.TopCategory)
		}
		fmt.Fprintln(w)
		for _, c := range report.Favorites.Categories {
			fmt.Fprintf(w, "  %-12s %d\n", c.Category, c.Count)
		}
		fmt.Fprintf(w, "performance:  %d (cart %.0f, favorites %.0f)\n", report.PerformanceScore, report.CartScore, report.FavoriteScore)
		for _, e := range report.FilteredCart {
			fmt.Fprintf(w, "  %3d x %-20s %8.2f\n", e.Quantity, e.Name, e.LineTotal())
		}
		return nil
	}
	return errors.Errorf("unknown format %q", format)
}

func runReplay(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "open script")
	}
	defer f.Close()
	actions, err := parseScript(f, c)
	if err != nil {
		return err
	}
	report := stats.BuildReport(replay(actions), replayOptions)
	return writeReport(cmd.OutOrStdout(), report, replayFormat)
}
