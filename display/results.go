package display

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/lineal/kinsim/query"
)

// RenderTotal prints the total population count.
func RenderTotal(total int) {
	pterm.Success.Printf("The tree contains %d people total\n", total)
}

// RenderPeriodCounts prints period/count pairs as a table.
func RenderPeriodCounts(title string, counts []query.PeriodCount) {
	if len(counts) == 0 {
		pterm.Info.Println("No people in the tree")
		return
	}

	data := pterm.TableData{{title, "People"}}
	for _, pc := range counts {
		data = append(data, []string{pc.Period, fmt.Sprintf("%d", pc.Count)})
	}
	// Render errors only occur for malformed table data; ours is fixed shape.
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderDuplicates prints the duplicate-name report.
func RenderDuplicates(dups []query.NameCount) {
	if len(dups) == 0 {
		pterm.Info.Println("There are no duplicate names in the tree")
		return
	}

	pterm.Info.Printf("There are %d duplicate names in the tree:\n", len(dups))
	items := make([]pterm.BulletListItem, 0, len(dups))
	for _, d := range dups {
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  fmt.Sprintf("%s (%d people)", d.Name, d.Count),
		})
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

// RenderSummary prints the one-line generation summary.
func RenderSummary(seed int64, population int) {
	pterm.Success.Printf("Generated family tree: %d people (seed %d)\n", population, seed)
}
