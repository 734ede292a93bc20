// Package observability provides formatted output utilities for verbose CLI
// mode plus Prometheus metrics for pipeline runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMergeSummary outputs how the candidate batch collapsed into
// canonical products.
func (p *Printer) PrintMergeSummary(candidates, products, dropped int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates in:      %d\n", candidates))
	sb.WriteString(fmt.Sprintf("Products out:       %d\n", products))
	sb.WriteString(fmt.Sprintf("Duplicates folded:  %d\n", candidates-products-dropped))
	sb.WriteString(fmt.Sprintf("Dropped (no id):    %d", dropped))

	p.printBox("CANONICAL MERGE", sb.String())
}

// PrintScoreSummary outputs score distributions after the scoring pass.
func (p *Printer) PrintScoreSummary(products []*types.Product) {
	if len(products) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scored %d products:\n\n", len(products)))
	sb.WriteString(fmt.Sprintf("Hot:       avg %3d   max %3d\n", avgScore(products, hotOf), maxScore(products, hotOf)))
	sb.WriteString(fmt.Sprintf("Top:       avg %3d   max %3d\n", avgScore(products, topOf), maxScore(products, topOf)))
	sb.WriteString(fmt.Sprintf("Treasure:  avg %3d   max %3d", avgScore(products, treasureOf), maxScore(products, treasureOf)))

	p.printBox("SCORING", sb.String())
}

// PrintTopProducts outputs the leading products with their scores.
func (p *Printer) PrintTopProducts(title string, products []*types.Product) {
	if len(products) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(products), maxItemsToShow)
	for i := 0; i < count; i++ {
		product := products[i]
		name := product.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    hot %d  top %d  treasure %d", product.HotScore, product.TopScore, product.TreasureScore))
		if product.DarkHorseIndex > 0 {
			sb.WriteString(fmt.Sprintf("  dhi %d", product.DarkHorseIndex))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(products) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more products", len(products)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDemandSummary outputs collector outcomes and demand tiers for the
// signal collection pass.
func (p *Printer) PrintDemandSummary(products []*types.Product) {
	collected := 0
	statuses := map[string]map[types.SignalStatus]int{
		"HN":     {},
		"X":      {},
		"GitHub": {},
	}
	tiers := map[types.DemandTier]int{}

	for _, product := range products {
		if product == nil || product.Demand == nil {
			continue
		}
		collected++
		statuses["HN"][product.Demand.HN.Status]++
		statuses["X"][product.Demand.X.Status]++
		statuses["GitHub"][product.Demand.GitHub.Status]++
		tiers[product.Demand.Tier]++
	}
	if collected == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Signals collected for %d products:\n\n", collected))
	for _, name := range []string{"HN", "X", "GitHub"} {
		s := statuses[name]
		sb.WriteString(fmt.Sprintf("%-8s ok %-3d skipped %-3d error %d\n",
			name+":", s[types.SignalOK], s[types.SignalSkipped], s[types.SignalError]))
	}
	sb.WriteString(fmt.Sprintf("\nDemand:  high %d   medium %d   low %d",
		tiers[types.DemandHigh], tiers[types.DemandMedium], tiers[types.DemandLow]))

	p.printBox("DEMAND SIGNALS", sb.String())
}

// PrintGuardrailSummary outputs how many scores the guardrail moved.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintGuardrailSummary(upgraded, downgraded, total int) {
	if upgraded == 0 && downgraded == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "GUARDRAIL: no scores adjusted")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Evaluated:   %d\n", total))
	sb.WriteString(fmt.Sprintf("Upgraded:    %d\n", upgraded))
	sb.WriteString(fmt.Sprintf("Downgraded:  %d", downgraded))

	p.printBox("GUARDRAIL", sb.String())
}

// PrintViewOutput outputs one curated view's ranked entries.
func (p *Printer) PrintViewOutput(view *types.ViewOutput) {
	if view == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d products selected\n\n", len(view.Products)))
	count := min(len(view.Products), maxItemsToShow)
	for i := 0; i < count; i++ {
		product := view.Products[i]
		name := product.Name
		if len(name) > 36 {
			name = name[:33] + "..."
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("   [%s] source: %s\n", primaryCategory(product), product.Source))
	}
	if len(view.Products) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(view.Products)-maxItemsToShow))
	}

	p.printBox("VIEW: "+strings.ToUpper(view.Name), strings.TrimSuffix(sb.String(), "\n"))
}

func primaryCategory(p *types.Product) string {
	if len(p.Categories) > 0 && p.Categories[0] != "" {
		return p.Categories[0]
	}
	return "other"
}

func hotOf(p *types.Product) int      { return p.HotScore }
func topOf(p *types.Product) int      { return p.TopScore }
func treasureOf(p *types.Product) int { return p.TreasureScore }

func avgScore(products []*types.Product, score func(*types.Product) int) int {
	if len(products) == 0 {
		return 0
	}
	sum := 0
	for _, p := range products {
		sum += score(p)
	}
	return sum / len(products)
}

func maxScore(products []*types.Product, score func(*types.Product) int) int {
	best := 0
	for _, p := range products {
		if s := score(p); s > best {
			best = s
		}
	}
	return best
}
