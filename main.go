package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"redpersona/internal/config"
	"redpersona/internal/llm"
	"redpersona/internal/persona"
	"redpersona/internal/redfetch"
	"redpersona/internal/report"
)

func main() {
	var cfg config.Config
	var provider string
	flag.StringVar(&provider, "provider", "openrouter", "LLM provider: openrouter, openai, anthropic, ollama")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.StringVar(&cfg.OutputDir, "output", "", "Directory for the saved persona file (default: OUTPUT_DIR or ./output)")
	flag.BoolVar(&cfg.NoSave, "no-save", false, "Print the persona without saving it to a file")
	flag.IntVar(&cfg.MaxPosts, "max-posts", 0, "Maximum posts to fetch (default: MAX_POSTS or 50)")
	flag.IntVar(&cfg.MaxComments, "max-comments", 0, "Maximum comments to fetch (default: MAX_COMMENTS or 50)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: redpersona [flags] <username|profile URL>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	// Credentials may live in a .env file next to the binary; a missing
	// file is fine, the environment still applies.
	_ = godotenv.Load()

	username, err := redfetch.ExtractUsername(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	cfg.Username = username
	cfg.Provider = llm.ProviderName(provider)

	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, &cfg); err != nil {
		log.Fatal(err)
	}
}

// fetcher and requester are the pipeline seams between the stages;
// run wires the real redfetch and persona implementations into them.
type fetcher interface {
	Fetch(ctx context.Context, username string) (*redfetch.Result, error)
}

type requester interface {
	Analyze(ctx context.Context, username string, result *redfetch.Result) (*persona.Persona, error)
}

func run(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("starting redpersona", "username", cfg.Username, "provider", cfg.Provider, "model", cfg.Model)

	f := redfetch.NewFetcher(ctx, cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent,
		cfg.MaxPosts, cfg.MaxComments)

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Name:       cfg.Provider,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		OllamaHost: cfg.OllamaHost,
	})
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	return runPipeline(ctx, cfg, f, persona.New(provider), os.Stdout)
}

// runPipeline executes the fetch -> aggregate -> analyze -> output
// sequence. Any stage failure aborts the run; later stages are never
// reached.
func runPipeline(ctx context.Context, cfg *config.Config, f fetcher, r requester, out io.Writer) error {
	slog.Info("fetching reddit activity")
	result, err := f.Fetch(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("fetching reddit activity: %w", err)
	}
	slog.Info("fetch complete", "posts", result.TotalPosts(), "comments", result.TotalComments())

	if result.TotalItems() == 0 {
		return fmt.Errorf("no content found for user %s", cfg.Username)
	}

	p, err := r.Analyze(ctx, cfg.Username, result)
	if err != nil {
		return fmt.Errorf("analyzing persona: %w", err)
	}

	outputDir := cfg.OutputDir
	if cfg.NoSave {
		outputDir = ""
	}
	w := report.NewWriter(outputDir)
	if err := w.Print(out, p); err != nil {
		return fmt.Errorf("printing persona: %w", err)
	}
	path, err := w.Save(p)
	if err != nil {
		return fmt.Errorf("saving persona: %w", err)
	}

	if path != "" {
		slog.Info("done", "saved", path)
	} else {
		slog.Info("done")
	}
	return nil
}
