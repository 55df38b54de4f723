package persona

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"redpersona/internal/llm"
	"redpersona/internal/redfetch"
	"redpersona/internal/textutil"
)

const (
	contentBudget  = 30000 // bytes of aggregated content per request
	maxPostBody    = 500   // bytes kept of each post body
	maxCommentBody = 300   // bytes kept of each comment body
	maxTokens      = 4000
)

// ErrEmptyCompletion is returned when the LLM response has no usable text.
var ErrEmptyCompletion = errors.New("llm returned an empty persona")

// Persona is the terminal artifact of a run.
type Persona struct {
	Username         string
	Report           string
	PostsAnalyzed    int
	CommentsAnalyzed int
	GeneratedAt      time.Time
}

// Analyzer turns fetched Reddit activity into a persona report using
// an LLM provider.
type Analyzer struct {
	provider llm.Provider
}

// New returns an Analyzer that uses the given LLM provider.
func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze aggregates the fetched items into the prompt blob and makes
// exactly one completion request.
func (a *Analyzer) Analyze(ctx context.Context, username string, result *redfetch.Result) (*Persona, error) {
	content := BuildContent(result)
	slog.Debug("aggregated content", "bytes", len(content),
		"posts", result.TotalPosts(), "comments", result.TotalComments())

	temp := float32(0.7)
	prompt := fmt.Sprintf(personaPrompt, username, content)
	slog.Info("requesting persona analysis")
	raw, err := a.provider.Complete(ctx, systemPrompt, prompt, &llm.CompleteOptions{
		Temperature: &temp,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("persona request: %w", err)
	}
	report := strings.TrimSpace(raw)
	if report == "" {
		return nil, ErrEmptyCompletion
	}

	return &Persona{
		Username:         username,
		Report:           report,
		PostsAnalyzed:    result.TotalPosts(),
		CommentsAnalyzed: result.TotalComments(),
		GeneratedAt:      time.Now(),
	}, nil
}

// BuildContent renders the fetched items into the prompt blob. Items
// are emitted in fetch order (newest first), post bodies capped at 500
// bytes and comment bodies at 300, and emission stops before the entry
// that would push the blob past the aggregation budget. Identical
// input always yields identical bytes, and the blob never exceeds the
// budget. A user with no items gets a minimal placeholder, not an
// error.
func BuildContent(result *redfetch.Result) string {
	var b strings.Builder

	// write appends s unless it would overflow the budget. The first
	// rejected entry ends the blob, keeping the cutoff a strict prefix
	// of the fetch order.
	write := func(s string) bool {
		if b.Len()+len(s) > contentBudget {
			return false
		}
		b.WriteString(s)
		return true
	}

	write("REDDIT USER CONTENT FOR ANALYSIS:\n\n")

	if !write("=== POSTS ===\n") {
		return b.String()
	}
	if len(result.Posts) == 0 {
		write("(no posts found)\n")
	}
	for i, post := range result.Posts {
		entry := fmt.Sprintf("\nPOST %d:\nSubreddit: r/%s\nTitle: %s\nContent: %s\nScore: %d\nLink: %s\n",
			i+1, post.Subreddit, post.Title,
			textutil.Truncate(post.Body, maxPostBody, "..."),
			post.Score, post.Permalink)
		if !write(entry) {
			return b.String()
		}
	}

	if !write("\n=== COMMENTS ===\n") {
		return b.String()
	}
	if len(result.Comments) == 0 {
		write("(no comments found)\n")
	}
	for i, comment := range result.Comments {
		entry := fmt.Sprintf("\nCOMMENT %d:\nSubreddit: r/%s\nContent: %s\nScore: %d\nLink: %s\n",
			i+1, comment.Subreddit,
			textutil.Truncate(comment.Body, maxCommentBody, "..."),
			comment.Score, comment.Permalink)
		if !write(entry) {
			return b.String()
		}
	}
	return b.String()
}
