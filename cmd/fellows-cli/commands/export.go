package commands

import (
	"os"

	"fellowharvest/lib/serviceutil"
	"fellowharvest/lib/sqliteutil"
	"fellowharvest/services/fellows"
	"fellowharvest/services/fellows/db"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes the persisted fellow table to stdout as csv.",
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
		err = fellows.WriteCSV(os.Stdout, fellowTable)
		if err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}
	},
}
