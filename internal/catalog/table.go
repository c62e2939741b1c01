package catalog

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const questionWidth = 60

// PrintWatchList imprime la watch-list numerada.
func PrintWatchList(w io.Writer, markets []domain.Market) {
	if len(markets) == 0 {
		fmt.Fprintln(w, "watch-list empty: monitoring all activity")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Market", "Tag", "Condition ID")
	for i, m := range markets {
		table.Append(
			fmt.Sprintf("%d", i+1),
			m.Label(questionWidth),
			m.TagID,
			m.ConditionID,
		)
	}
	table.Render()
}
