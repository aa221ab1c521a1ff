package fellows

import (
	"encoding/csv"
	"io"
)

// WriteCSV serializes the table with the stable header contract from
// Columns(). downstream reporting reads this file; do not reorder.
func WriteCSV(w io.Writer, table FellowTable) error {
	out := csv.NewWriter(w)
	if err := out.Write(Columns()); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := out.Write(row.Record()); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
