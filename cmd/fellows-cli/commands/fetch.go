package commands

import (
	"context"
	"log/slog"
	"time"

	"fellowharvest/lib/docstore"
	"fellowharvest/lib/scrapers/macfound"
	"fellowharvest/lib/scrapers/wikipedia"
	"fellowharvest/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches fellow profiles and their wikipedia articles into the document store.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		store, err := docstore.NewStore(cfg.StoreDir)
		if err != nil {
			serviceutil.Fatal("failed to open document store", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute*30)
		defer cancel()

		mfClient, err := macfound.NewClient(ctx, macfound.ClientOptions{
			BaseUrl: cfg.Macfound.BaseUrl,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize macfound client", err)
		}
		wikiClient, err := wikipedia.NewClient(ctx, wikipedia.ClientOptions{
			BaseUrl: cfg.Wikipedia.BaseUrl,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize wikipedia client", err)
		}

		for _, classPath := range cfg.Macfound.ClassPaths {
			anchors, err := mfClient.FellowLinks(ctx, classPath)
			if err != nil {
				serviceutil.Fatal("failed to list fellow profiles", err)
			}
			slog.Info("fetching fellow class", "path", classPath, "fellows", len(anchors))

			for _, anchor := range anchors {
				key := docstore.Key(anchor.Name)

				profile, err := mfClient.FetchProfile(ctx, anchor.Href)
				if err != nil {
					// a failed fetch leaves the subject with unknown
					// fields; the pipeline copes
					slog.WarnContext(ctx, "failed to fetch profile", "name", anchor.Name, "err", err)
				} else if err := store.Write(macfound.SourceName, key, profile); err != nil {
					serviceutil.Fatal("failed to store profile", err)
				}

				article, err := wikiClient.FetchArticle(ctx, anchor.Name)
				if err != nil {
					slog.WarnContext(ctx, "no wikipedia article", "name", anchor.Name, "err", err)
					continue
				}
				if err := store.Write(wikipedia.SourceName, key, article); err != nil {
					serviceutil.Fatal("failed to store article", err)
				}
			}
		}
	},
}
