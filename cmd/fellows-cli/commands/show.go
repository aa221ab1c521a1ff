package commands

import (
	"os"

	"fellowharvest/lib/serviceutil"
	"fellowharvest/lib/sqliteutil"
	"fellowharvest/services/fellows"
	"fellowharvest/services/fellows/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Renders the persisted fellow table.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		fellowTable, err := fellows.NewStore(database).Pull(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to read fellow table", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)

		header := table.Row{}
		for _, col := range fellows.Columns() {
			header = append(header, col)
		}
		t.AppendHeader(header)
		for _, subject := range fellowTable.Rows {
			row := table.Row{}
			for _, cell := range subject.Record() {
				if len(cell) > 40 {
					cell = cell[:37] + "..."
				}
				row = append(row, cell)
			}
			t.AppendRow(row)
		}
		t.Render()
	},
}
