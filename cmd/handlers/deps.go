package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newslens/internal/categorization"
	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/logger"
	"newslens/internal/nlp"
	"newslens/internal/persistence"
	"newslens/internal/render"
	"newslens/internal/store"
)

// Output formats shared by the reporting commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func newTokenizer(cfg config.Tokenizer) (nlp.Tokenizer, error) {
	switch cfg.Provider {
	case "", "words":
		return nlp.NewWordTokenizer(), nil
	case "service":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("tokenizer.endpoint (or NLP_SERVICE_URL) is required for the service tokenizer")
		}
		return nlp.NewServiceClient(cfg.Endpoint, cfg.APIKey, config.ParseDuration(cfg.Timeout, 30*time.Second)), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer provider: %s", cfg.Provider)
	}
}

// newEmbedder builds the configured embedder. The returned func releases
// its resources and is never nil.
func newEmbedder(ctx context.Context, cfg *config.Config) (nlp.Embedder, func(), error) {
	noop := func() {}
	emb := cfg.Embedding

	switch emb.Provider {
	case "", "gemini":
		g, err := nlp.NewGeminiEmbedder(ctx, emb.APIKey, emb.Model)
		if err != nil {
			return nil, noop, err
		}
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("Failed to close Gemini client", "error", err.Error())
			}
		}, nil
	case "service":
		if emb.Endpoint == "" {
			return nil, noop, fmt.Errorf("embedding.endpoint is required for the service embedder")
		}
		return nlp.NewServiceClient(emb.Endpoint, emb.APIKey, config.ParseDuration(emb.Timeout, 60*time.Second)), noop, nil
	case "hashing":
		tok, err := newTokenizer(cfg.Tokenizer)
		if err != nil {
			return nil, noop, err
		}
		return nlp.NewHashingEmbedder(emb.Dimensions, tok), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown embedding provider: %s", emb.Provider)
	}
}

// openRepository opens the configured article database.
func openRepository(cfg config.Database) (persistence.ArticleRepository, error) {
	switch cfg.Driver {
	case "", "sqlite":
		s, err := store.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open article store: %w", err)
		}
		return s, nil
	case "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("database connection string not configured (set database.url in config or DATABASE_URL env var)")
		}
		db, err := persistence.NewPostgresDB(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db.Articles(), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

// articleSelection holds the flags that pick the articles a command runs on.
type articleSelection struct {
	input    string
	start    string
	end      string
	category string
}

func (s *articleSelection) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "JSON file of articles ('-' for stdin); default reads the database")
	cmd.Flags().StringVar(&s.start, "start", "", "start date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&s.end, "end", "", "end date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&s.category, "category", "", "coarse category (정치, 경제, 사회) or exact tag such as 정치>외교")
}

func (s *articleSelection) hasPeriod() bool {
	return s.start != "" || s.end != ""
}

// load returns the selected articles, filtered by period and category.
func (s *articleSelection) load(ctx context.Context, cfg *config.Config) ([]core.Article, error) {
	h := categorization.DefaultHierarchy()

	var filter categorization.Filter
	if s.hasPeriod() {
		if s.start == "" || s.end == "" {
			return nil, fmt.Errorf("both --start and --end are required for a period filter")
		}
		f, err := categorization.ParseFilter(s.start, s.end, s.category)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	if s.input != "" {
		articles, err := readArticlesJSON(s.input)
		if err != nil {
			return nil, err
		}
		if s.hasPeriod() {
			return h.FilterArticles(articles, filter), nil
		}
		return filterCategory(h, articles, s.category), nil
	}

	repo, err := openRepository(cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() { _ = repo.Close() }()

	if !s.hasPeriod() {
		articles, err := repo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list articles: %w", err)
		}
		return filterCategory(h, articles, s.category), nil
	}

	var categories []string
	if s.category != "" {
		categories = h.Subcategories(s.category)
	}
	articles, err := repo.ListByPeriod(ctx, filter.Start, filter.End, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func filterCategory(h categorization.Hierarchy, articles []core.Article, category string) []core.Article {
	if category == "" {
		return articles
	}
	var out []core.Article
	for _, a := range articles {
		if h.Matches(category, a.Category) {
			out = append(out, a)
		}
	}
	return out
}

func readArticlesJSON(path string) ([]core.Article, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var articles []core.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles from %s: %w", path, err)
	}
	return articles, nil
}

// outputOptions holds the --format and --output flags.
type outputOptions struct {
	format string
	output string
}

func (o *outputOptions) bind(cmd *cobra.Command, formats string) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatTable, "output format: "+formats)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the report to this file instead of stdout")
}

// write renders with fn to stdout, or to the --output file.
func (o *outputOptions) write(cmd *cobra.Command, fn func(w io.Writer) error) error {
	if o.output == "" {
		return fn(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	// A bare file name lands in the default reports directory.
	dir := filepath.Dir(o.output)
	if !strings.ContainsRune(o.output, filepath.Separator) {
		dir = ""
	}
	path, err := render.WriteToFile(buf.Bytes(), dir, filepath.Base(o.output))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
	return nil
}
