// Package main provides the scraper CLI, which loads a channel's uploads into
// the videos table.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yt-dashboard/internal/config"
	"github.com/yt-dashboard/internal/models"
	"github.com/yt-dashboard/internal/scraper"
)

const defaultMax = 500

// channelFetcher resolves a channel and lists its uploads as video records
type channelFetcher interface {
	ResolveChannel(ctx context.Context, ref string) (string, error)
	ChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoRecord, error)
}

// videoWriter persists video records
type videoWriter interface {
	UpsertVideos(ctx context.Context, videos []models.VideoRecord) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var channel string
	var limit int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scraper",
		Short: "Fetch a channel's uploads into the videos table",
		Long:  "Scraper reads the most recent uploads of a YouTube channel through the Data API and upserts them into the dashboard database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--max must be positive, got %d", limit)
			}

			if err := godotenv.Load(); err != nil {
				log.Printf("Warning: .env file not found")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateScraper(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			fetcher, err := scraper.NewFetcher(ctx, cfg.YouTubeAPIKey)
			if err != nil {
				return err
			}
			db, err := models.NewDatabase(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			n, err := scrape(ctx, fetcher, db, channel, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d videos from channel %s\n", n, channel)
			return nil
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "YouTube channel ID, @handle or channel URL")
	cmd.Flags().IntVarP(&limit, "max", "m", defaultMax, "Maximum number of uploads to fetch")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall time limit for the run")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

// scrape fetches the channel's uploads and writes them, returning how many
// records were stored
func scrape(ctx context.Context, fetcher channelFetcher, store videoWriter, channel string, limit int) (int, error) {
	channelID, err := fetcher.ResolveChannel(ctx, channel)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve channel %s: %w", channel, err)
	}
	videos, err := fetcher.ChannelVideos(ctx, channelID, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	if len(videos) == 0 {
		return 0, nil
	}
	if err := store.UpsertVideos(ctx, videos); err != nil {
		return 0, fmt.Errorf("failed to store videos: %w", err)
	}
	return len(videos), nil
}
