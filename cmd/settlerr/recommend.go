package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alaik/settlerr/internal/config"
	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/llm"
	"github.com/alaik/settlerr/internal/matchmaking"
	"github.com/alaik/settlerr/internal/observability"
	"github.com/alaik/settlerr/internal/types"
)

// recommendCandidateLimit caps how many stored events one run considers.
const recommendCandidateLimit = 200

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank upcoming events for a user or a free-text prompt",
	Long: `Rank stored upcoming events against a user's profile (--user) or a free-text
prompt (--prompt) and print the results. Uses the LLM keyword profile when
GEMINI_API_KEY is set, and the deterministic fallback otherwise.`,
	RunE: runRecommend,
}

var (
	recommendConfigPath string
	recommendUser       string
	recommendPrompt     string
	recommendMinScore   float64
	recommendTopN       int
	recommendAPIKey     string
	recommendDBURL      string
	recommendVerbose    bool
)

func init() {
	recommendCmd.Flags().StringVar(&recommendConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "", "Username or user ID to recommend for (mutually exclusive with --prompt)")
	recommendCmd.Flags().StringVarP(&recommendPrompt, "prompt", "p", "", "Free-text prompt to match against (mutually exclusive with --user)")
	recommendCmd.Flags().Float64Var(&recommendMinScore, "min-score", 0, "Minimum match score, 0-100 (0 uses the default threshold)")
	recommendCmd.Flags().IntVarP(&recommendTopN, "top-n", "n", 0, "Maximum results to print (0 uses the default cap)")
	recommendCmd.Flags().StringVar(&recommendAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	recommendCmd.Flags().StringVar(&recommendDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print score reasoning for each result")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if (recommendUser == "") == (recommendPrompt == "") {
		return fmt.Errorf("exactly one of --user or --prompt must be provided")
	}

	cfg, err := loadMergedConfig(cmd, recommendConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (--db-url flag or DATABASE_URL env var)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err = llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else if cfg.Verbose {
		fmt.Fprintln(os.Stdout, "No API key configured; using the deterministic keyword fallback.")
	}
	engine := matchmaking.NewEngine(client)

	from := time.Now().UTC().Format(time.RFC3339)
	events, err := database.ListUpcomingEvents(ctx, from, recommendCandidateLimit)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No upcoming events stored. Run 'settlerr ingest' first.")
		return nil
	}

	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(os.Stdout)
	}

	var scored []types.ScoredEvent
	if recommendPrompt != "" {
		scored = engine.MatchPrompt(ctx, recommendPrompt, events, cfg.MinScore, cfg.TopN)
	} else {
		user, err := lookupUser(ctx, database, recommendUser)
		if err != nil {
			return err
		}
		profile := user.Profile()
		if printer != nil {
			// Verbose mode recomputes the keyword profile for display; with
			// an LLM client that costs one extra call.
			printer.PrintUserProfile(profile)
			printer.PrintKeywordProfile(engine.BuildUserKeywordProfile(ctx, profile))
		}
		scored = engine.RecommendEvents(ctx, profile, events, cfg.MinScore, cfg.TopN)
	}

	if len(scored) == 0 {
		fmt.Fprintln(os.Stdout, "No events scored above the threshold.")
		return nil
	}

	if printer != nil {
		printer.PrintScoredEvents(scored)
	}
	printScoredEvents(os.Stdout, scored)
	return nil
}

// loadMergedConfig builds the effective config: file values, then environment
// values for anything the file left empty, then explicit CLI flags on top.
func loadMergedConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(*config.FromEnv())

	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = recommendDBURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.GeminiAPIKey = recommendAPIKey
	}
	if cmd.Flags().Changed("min-score") {
		cfg.MinScore = recommendMinScore
	}
	if cmd.Flags().Changed("top-n") {
		cfg.TopN = recommendTopN
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = recommendVerbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// lookupUser resolves a --user value that may be a user ID or a username.
func lookupUser(ctx context.Context, database *db.DB, ref string) (*db.User, error) {
	var (
		user *db.User
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		user, err = database.GetUser(ctx, id)
	} else {
		user, err = database.GetUserByUsername(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %s", ref)
	}
	return user, nil
}

// printScoredEvents writes a ranked table of scored events.
func printScoredEvents(w io.Writer, scored []types.ScoredEvent) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tDATE\tEVENT")
	for i, event := range scored {
		fmt.Fprintf(tw, "%d\t%.0f\t%s\t%s\n", i+1, event.MatchScore, event.Date, event.Name)
	}
	tw.Flush()
}
