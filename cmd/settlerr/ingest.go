package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/events"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch upcoming events from the listing API and store them",
	Long: `Fetch upcoming events near a location from the Eventbrite API and store them
in the database. Events whose exact name is already stored are skipped, so
repeated runs do not create duplicates.`,
	RunE: runIngest,
}

var (
	ingestLocation  string
	ingestRadius    string
	ingestMaxEvents int
	ingestToken     string
	ingestDBURL     string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestLocation, "location", "l", "", "Location to search around, e.g. \"Calgary, AB\" (defaults to DEFAULT_LOCATION env var)")
	ingestCmd.Flags().StringVar(&ingestRadius, "radius", events.DefaultRadius, "Search radius, e.g. 10km")
	ingestCmd.Flags().IntVar(&ingestMaxEvents, "max-events", events.DefaultMaxEvents, "Maximum events to fetch")
	ingestCmd.Flags().StringVar(&ingestToken, "token", "", "Eventbrite API token (optional, defaults to EVENTBRITE_TOKEN env var)")
	ingestCmd.Flags().StringVar(&ingestDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	token := ingestToken
	if token == "" {
		token = os.Getenv("EVENTBRITE_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("Eventbrite token is required (--token flag or EVENTBRITE_TOKEN env var)")
	}

	location := ingestLocation
	if location == "" {
		location = os.Getenv("DEFAULT_LOCATION")
	}
	if location == "" {
		return fmt.Errorf("location is required (--location flag or DEFAULT_LOCATION env var)")
	}

	databaseURL := ingestDBURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (--db-url flag or DATABASE_URL env var)")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := events.NewClient(token)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Fetching up to %d events near %s...\n", ingestMaxEvents, location)
	fetched, err := client.UpcomingEvents(ctx, events.SearchOptions{
		Location:  location,
		Radius:    ingestRadius,
		MaxEvents: ingestMaxEvents,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	stored, skipped := 0, 0
	for i := range fetched {
		event := &fetched[i]
		existing, err := database.GetEventByName(ctx, event.Name)
		if err != nil {
			return fmt.Errorf("failed to check for existing event: %w", err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if _, err := database.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to store event %q: %w", event.Name, err)
		}
		stored++
	}

	fmt.Fprintf(os.Stdout, "Stored %d new events, skipped %d already present.\n", stored, skipped)
	return nil
}
