package commands

import (
	"context"
	"fmt"
	"os"

	"fellowharvest/lib/configutil"
	"fellowharvest/lib/serviceutil"
	"fellowharvest/services/fellows"

	"github.com/spf13/cobra"
)

type MacfoundConfig struct {
	BaseUrl    string   `json:"base_url"`
	ClassPaths []string `json:"class_paths"`
}

type WikipediaConfig struct {
	BaseUrl string `json:"base_url"`
}

type Config struct {
	// directory the raw fetched documents live under
	StoreDir string `json:"store_dir"`
	// sqlite database the finished table is pushed to
	Database string `json:"database"`
	// path to the manual override table; optional
	Overrides string `json:"overrides"`
	// csv the finished table is written to by `build`
	OutputCsv string `json:"output_csv"`
	Workers   int    `json:"workers"`

	Reconciler fellows.ReconcilerConfig `json:"reconciler"`
	Macfound   MacfoundConfig           `json:"macfound"`
	Wikipedia  WikipediaConfig          `json:"wikipedia"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config.json5", err)
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = ".dev/documents"
	}
	if cfg.Database == "" {
		cfg.Database = ".dev/fellows.db"
	}
	if cfg.OutputCsv == "" {
		cfg.OutputCsv = "fellows.csv"
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "fellows-cli",
	Short: "fellows-cli scrapes fellowship biographies into one clean table.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
