// Command verse prints a randomly chosen verse from a marker-formatted
// scripture corpus, and can look up citations, export the corpus and serve
// it over HTTP.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/core/export"
	"github.com/FocuswithJustin/randverse/core/sqlite"
	"github.com/FocuswithJustin/randverse/internal/api"
	"github.com/FocuswithJustin/randverse/internal/loader"
	"github.com/FocuswithJustin/randverse/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config    kong.ConfigFlag `help:"Load flags from a JSON configuration file" placeholder:"FILE"`
	Corpus    string          `help:"Corpus file; - reads stdin and empty uses the bundled text" env:"VERSE_CORPUS" placeholder:"PATH"`
	Charset   string          `help:"Character encoding of the corpus" default:"windows-1251" env:"VERSE_CHARSET"`
	Output    string          `short:"o" help:"Output format (${enum})" enum:"text,json,html,xml" default:"text" env:"VERSE_OUTPUT"`
	Seed      int64           `help:"Seed for reproducible selection (negative picks a random seed)" default:"-1"`
	LogLevel  string          `help:"Log level (${enum})" enum:"debug,info,warn,error" default:"warn" env:"VERSE_LOG_LEVEL"`
	LogFormat string          `help:"Log format (${enum})" enum:"text,json" default:"text" env:"VERSE_LOG_FORMAT"`

	ctx    context.Context
	out    io.Writer
	format bible.OutputFormat
}

// CLI defines the command-line interface for verse.
type CLI struct {
	Globals

	Random  RandomCmd  `cmd:"" default:"withargs" help:"Print a random verse (default)"`
	Show    ShowCmd    `cmd:"" help:"Print the verse or chapter for a citation such as Genesis:1:3"`
	Books   BooksCmd   `cmd:"" help:"List the books in the corpus"`
	Stats   StatsCmd   `cmd:"" help:"Show corpus statistics and fingerprint"`
	Export  ExportCmd  `cmd:"" help:"Convert the corpus to another format"`
	Serve   ServeCmd   `cmd:"" help:"Start the REST and websocket API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// setup applies logging flags and resolves the output format.
func (g *Globals) setup(ctx context.Context, out io.Writer) error {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)

	g.format, err = bible.ParseOutputFormat(g.Output)
	if err != nil {
		return err
	}
	g.ctx = ctx
	g.out = out
	return nil
}

func (g *Globals) load() (*loader.Loaded, error) {
	return loader.Load(g.ctx, g.loaderOptions())
}

func (g *Globals) loaderOptions() loader.Options {
	return loader.Options{Source: g.Corpus, Charset: g.Charset}
}

func (g *Globals) selector() *bible.Selector {
	if g.Seed >= 0 {
		return bible.NewSeededSelector(uint64(g.Seed))
	}
	return bible.NewSelector(nil)
}

// RandomCmd prints randomly selected verses.
type RandomCmd struct {
	Count int `short:"n" help:"Number of verses to print" default:"1"`
}

func (c *RandomCmd) Run(g *Globals) error {
	if c.Count < 1 {
		return errors.NewValidation("count", "must be at least 1")
	}
	loaded, err := g.load()
	if err != nil {
		return err
	}

	sel := g.selector()
	passages := make([]bible.Passage, 0, c.Count)
	for range c.Count {
		p, err := sel.Pick(loaded.Corpus)
		if err != nil {
			return err
		}
		passages = append(passages, p)
	}
	return bible.Render(g.out, g.format, passages...)
}

// ShowCmd prints the passages a citation refers to.
type ShowCmd struct {
	Ref string `arg:"" help:"Citation: Book:Chapter or Book:Chapter:Verse"`
}

func (c *ShowCmd) Run(g *Globals) error {
	ref, err := bible.ParseRef(c.Ref)
	if err != nil {
		return err
	}
	loaded, err := g.load()
	if err != nil {
		return err
	}
	passages, err := bible.Lookup(loaded.Corpus, ref)
	if err != nil {
		return err
	}
	return bible.Render(g.out, g.format, passages...)
}

// BooksCmd lists books with their sizes.
type BooksCmd struct{}

type bookSummary struct {
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
	Verses   int    `json:"verses"`
}

func (c *BooksCmd) Run(g *Globals) error {
	loaded, err := g.load()
	if err != nil {
		return err
	}

	books := make([]bookSummary, 0, len(loaded.Corpus.Books))
	for _, b := range loaded.Corpus.Books {
		s := bookSummary{Name: b.Name, Chapters: len(b.Chapters)}
		for _, ch := range b.Chapters {
			s.Verses += len(ch.Verses)
		}
		books = append(books, s)
	}

	if g.format == bible.FormatJSON {
		return writeJSON(g.out, books)
	}
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOOK\tCHAPTERS\tVERSES")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", b.Name, b.Chapters, b.Verses)
	}
	return tw.Flush()
}

// StatsCmd reports corpus statistics, including what the parser dropped.
type StatsCmd struct{}

type statsReport struct {
	Source      string        `json:"source"`
	Fingerprint string        `json:"fingerprint"`
	Size        int           `json:"size"`
	Stats       bible.Stats   `json:"stats"`
	Dropped     bible.Dropped `json:"dropped"`
}

func (c *StatsCmd) Run(g *Globals) error {
	loaded, err := g.load()
	if err != nil {
		return err
	}
	report := statsReport{
		Source:      loaded.Source,
		Fingerprint: loaded.Fingerprint,
		Size:        loaded.Size,
		Stats:       loaded.Corpus.Stats(),
		Dropped:     loaded.Dropped,
	}

	if g.format == bible.FormatJSON {
		return writeJSON(g.out, report)
	}
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Source:\t%s\n", report.Source)
	fmt.Fprintf(tw, "Fingerprint:\t%s\n", report.Fingerprint)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", report.Size)
	fmt.Fprintf(tw, "Books:\t%d\n", report.Stats.Books)
	fmt.Fprintf(tw, "Chapters:\t%d\n", report.Stats.Chapters)
	fmt.Fprintf(tw, "Verses:\t%d\n", report.Stats.Verses)
	fmt.Fprintf(tw, "Empty books:\t%d\n", report.Stats.EmptyBooks)
	fmt.Fprintf(tw, "Empty chapters:\t%d\n", report.Stats.EmptyChapters)
	fmt.Fprintf(tw, "Unrecognized lines:\t%d\n", report.Dropped.Lines)
	fmt.Fprintf(tw, "Orphan chapters:\t%d\n", report.Dropped.Chapters)
	fmt.Fprintf(tw, "Orphan verses:\t%d\n", report.Dropped.Verses)
	return tw.Flush()
}

// ExportCmd writes the corpus in another format.
type ExportCmd struct {
	Format   string `short:"f" help:"Export format (${enum})" enum:"json,osis,text,sqlite" default:"json"`
	Out      string `arg:"" help:"Output file; - writes to stdout and a .xz suffix compresses stream formats"`
	Title    string `help:"Work title recorded in the export"`
	Language string `help:"Language tag recorded in the export"`
	Verify   bool   `help:"Re-read an OSIS export and check its counts against the corpus"`
}

func (c *ExportCmd) Run(g *Globals) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	loaded, err := g.load()
	if err != nil {
		return err
	}
	opts := export.Options{Title: c.Title, Language: c.Language, Fingerprint: loaded.Fingerprint}

	if c.Out == "-" {
		return export.Write(g.out, loaded.Corpus, format, opts)
	}

	start := time.Now()
	if err := export.ToFile(g.ctx, c.Out, loaded.Corpus, format, opts); err != nil {
		return err
	}
	logging.Info("corpus exported", "format", string(format), "path", c.Out, "duration_ms", time.Since(start).Milliseconds())

	if c.Verify && format == export.FormatOSIS {
		return verifyOSIS(g.ctx, c.Out, loaded.Corpus)
	}
	return nil
}

func verifyOSIS(ctx context.Context, path string, c *bible.Corpus) error {
	data, err := asset.Load(ctx, path)
	if err != nil {
		return err
	}
	got, err := export.SummarizeOSIS(bytes.NewReader(data))
	if err != nil {
		return err
	}
	stats := c.Stats()
	want := export.OSISSummary{Books: stats.Books, Chapters: stats.Chapters, Verses: stats.Verses}
	if got != want {
		return errors.NewValidation("osis", fmt.Sprintf("%s has %+v, corpus has %+v", path, got, want))
	}
	logging.Info("osis export verified", "path", path, "books", got.Books, "verses", got.Verses)
	return nil
}

// ServeCmd runs the API server until interrupted.
type ServeCmd struct {
	Host           string        `help:"Listen host" env:"VERSE_HOST"`
	Port           int           `help:"HTTP server port" default:"8080" env:"VERSE_PORT"`
	FeedInterval   time.Duration `help:"Websocket random-verse feed period (0 disables)" default:"30s"`
	CacheTTL       time.Duration `name:"cache-ttl" help:"Reload the corpus after this long (0 keeps it forever)" default:"5m"`
	RateLimit      int           `help:"Requests per minute per client (0 disables)" default:"0"`
	RateBurst      int           `help:"Rate limiter burst size" default:"10"`
	AllowedOrigins []string      `name:"allowed-origin" help:"Websocket origin allowed to connect (repeatable)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg := api.DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.Version = version
	cfg.Corpus = g.loaderOptions()
	cfg.FeedInterval = c.FeedInterval
	cfg.CacheTTL = c.CacheTTL
	cfg.RateLimitRequests = c.RateLimit
	cfg.RateLimitBurst = c.RateBurst
	cfg.AllowedOrigins = c.AllowedOrigins
	return api.Start(g.ctx, cfg, g.selector())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	if g.format == bible.FormatJSON {
		return writeJSON(g.out, struct {
			Version string      `json:"version"`
			SQLite  sqlite.Info `json:"sqlite"`
		}{version, sqlite.GetInfo()})
	}
	fmt.Fprintf(g.out, "verse version %s (sqlite driver: %s)\n", version, sqlite.DriverType())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parserOptions(extra ...kong.Option) []kong.Option {
	opts := []kong.Option{
		kong.Name("verse"),
		kong.Description("Print a random verse with its citation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, "/etc/verse/config.json", "~/.config/verse/config.json"),
	}
	return append(opts, extra...)
}

func main() {
	var cli CLI
	parser := kong.Must(&cli, parserOptions()...)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cli.Globals.setup(ctx, os.Stdout)
	if err == nil {
		err = kctx.Run(&cli.Globals)
	}
	stop()
	kctx.FatalIfErrorf(err)
}
