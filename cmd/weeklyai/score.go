package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/observability"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/scoring"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a merged product snapshot",
	Long:  "Reads merged products, computes hot, top, treasure, and final scores against per-source maxima, and writes the scored product list.",
	RunE:  runScore,
}

var (
	scoreInput  string
	scoreOutput string
	scoreTop    int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "", "Path to merged products JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output scored products JSON file (default: stdout)")
	scoreCmd.Flags().IntVar(&scoreTop, "top", 0, "Print the top N products by hot score after scoring")

	if err := scoreCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	// 1. Load merged products
	products, err := readProducts(scoreInput)
	if err != nil {
		return err
	}

	// 2. Score against per-source maxima
	stats := scoring.BuildSourceStats(products)
	engine := scoring.NewEngine(scoring.DefaultWeights(), time.Now().Year(), stats)
	engine.ScoreAll(products)

	// 3. Write scored products
	if err := writeJSON(scoreOutput, products); err != nil {
		return err
	}

	if scoreTop > 0 {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintTopProducts(fmt.Sprintf("TOP %d BY HOT SCORE", scoreTop), topByHot(products, scoreTop))
	}

	if scoreOutput != "" && scoreOutput != "-" {
		fmt.Fprintf(os.Stdout, "Scored %d products to %s\n", len(products), scoreOutput)
	}
	return nil
}

// topByHot returns up to n products sorted by hot score, leaving the input
// order untouched.
func topByHot(products []*types.Product, n int) []*types.Product {
	ranked := make([]*types.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HotScore > ranked[j].HotScore
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
