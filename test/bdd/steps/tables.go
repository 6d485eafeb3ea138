package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// intColumn reads a two column table with a header row into name -> value
func intColumn(table *godog.Table) (map[string]int, error) {
	out := make(map[string]int, len(table.Rows))
	for _, row := range dataRows(table) {
		if len(row.Cells) != 2 {
			return nil, fmt.Errorf("expected two cells per row, got %d", len(row.Cells))
		}
		n, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", row.Cells[0].Value, err)
		}
		out[row.Cells[0].Value] = n
	}
	return out, nil
}

func dataRows(table *godog.Table) []*messages.PickleTableRow {
	if table == nil || len(table.Rows) < 2 {
		return nil
	}
	return table.Rows[1:]
}
