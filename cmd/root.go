package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/googlebooks"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
	"github.com/lepinkainen/bookshelf/internal/search"
	"github.com/lepinkainen/bookshelf/internal/tui"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

const requestTimeout = 30 * time.Second

// CLI represents the complete command structure for the bookshelf application
type CLI struct {
	// Global flags
	APIKey   string `help:"Google Books API key (overrides config and GOOGLE_BOOKS_API_KEY)"`
	PageSize int    `help:"Results per source per page" default:"10"`

	Search SearchCmd `cmd:"" help:"Search Google Books and Open Library and print merged results"`
	Browse BrowseCmd `cmd:"" help:"Interactive live search with result details"`
	Detail DetailCmd `cmd:"" help:"Show full details for a single book"`
	Shelf  ShelfCmd  `cmd:"" help:"Manage Google Books bookshelves"`
}

// SearchCmd represents the one-shot search command
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Type    string   `short:"t" help:"Search facet" enum:"title,author,subject" default:"title"`
	Sources []string `short:"s" help:"Sources to query" enum:"google,openlibrary" default:"google,openlibrary"`
	Page    int      `short:"p" help:"Result page, starting from 1" default:"1"`
}

// BrowseCmd represents the interactive TUI command
type BrowseCmd struct {
	Type    string   `short:"t" help:"Initial search facet" enum:"title,author,subject" default:"title"`
	Sources []string `short:"s" help:"Initial sources" enum:"google,openlibrary" default:"google,openlibrary"`
}

// DetailCmd represents the single-book detail command
type DetailCmd struct {
	ID     string `arg:"" help:"Volume ID (Google Books) or work key (Open Library)"`
	Source string `help:"Provider the ID belongs to" enum:"google,openlibrary" default:"google"`
}

// ShelfCmd represents the bookshelf command and its subcommands
type ShelfCmd struct {
	List    ShelfListCmd    `cmd:"" help:"List a user's public bookshelves"`
	Volumes ShelfVolumesCmd `cmd:"" help:"List the volumes on a bookshelf"`
	Add     ShelfAddCmd     `cmd:"" help:"Add a volume to a bookshelf"`
	Remove  ShelfRemoveCmd  `cmd:"" help:"Remove a volume from a bookshelf"`
}

// ShelfListCmd lists a user's bookshelves
type ShelfListCmd struct {
	User string `short:"u" help:"Google Books user ID (defaults to shelf.userid in config)"`
}

// ShelfVolumesCmd lists the contents of one bookshelf
type ShelfVolumesCmd struct {
	Shelf string `arg:"" help:"Bookshelf ID"`
	User  string `short:"u" help:"Google Books user ID (defaults to shelf.userid in config)"`
}

// ShelfAddCmd adds a volume to the authenticated user's bookshelf
type ShelfAddCmd struct {
	Shelf  string `arg:"" help:"Bookshelf ID"`
	Volume string `arg:"" help:"Volume ID to add"`
}

// ShelfRemoveCmd removes a volume from the authenticated user's bookshelf
type ShelfRemoveCmd struct {
	Shelf  string `arg:"" help:"Bookshelf ID"`
	Volume string `arg:"" help:"Volume ID to remove"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookshelf"),
		kong.Description("Search books across Google Books and Open Library."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.AutomaticEnv()
	if err := viper.BindEnv("googlebooks.apikey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.APIKey != "" {
		viper.Set("googlebooks.apikey", cli.APIKey)
		config.GoogleBooksAPIKey = cli.APIKey
	}
	if cli.PageSize > 0 {
		viper.Set("search.pagesize", cli.PageSize)
		config.PageSize = cli.PageSize
	}
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("BOOKSHELF_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// newCatalogClient builds provider clients from the global config.
func newCatalogClient() *catalog.Client {
	var googleOpts []googlebooks.Option
	if config.GoogleBooksBaseURL != "" {
		googleOpts = append(googleOpts, googlebooks.WithBaseURL(config.GoogleBooksBaseURL))
	}
	google := googlebooks.NewClient(config.GoogleBooksAPIKey, googleOpts...)

	var olOpts []openlibrary.Option
	if config.OpenLibraryBaseURL != "" {
		olOpts = append(olOpts, openlibrary.WithBaseURL(config.OpenLibraryBaseURL))
	}
	openLib := openlibrary.NewClient(olOpts...)

	return catalog.NewClient(google, openLib)
}

func parseSearchType(value string) book.SearchType {
	switch value {
	case "author":
		return book.SearchByAuthor
	case "subject":
		return book.SearchBySubject
	default:
		return book.SearchByTitle
	}
}

func parseSources(values []string) catalog.Sources {
	var s catalog.Sources
	for _, v := range values {
		switch v {
		case "google":
			s.GoogleBooks = true
		case "openlibrary":
			s.OpenLibrary = true
		}
	}
	if !s.Any() {
		s = catalog.Sources{GoogleBooks: true, OpenLibrary: true}
	}
	return s
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	query := strings.TrimSpace(strings.Join(s.Query, " "))
	if query == "" {
		return fmt.Errorf("search query must not be blank")
	}
	if s.Page < 1 {
		s.Page = 1
	}

	client := newCatalogClient()

	done := make(chan search.State, 1)
	presenter := search.PresenterFunc(func(state search.State) {
		if state.Kind == search.StateSuccess || state.Kind == search.StateError {
			select {
			case done <- state:
			default:
			}
		}
	})

	orch := search.NewOrchestrator(client, presenter,
		search.WithSearchType(parseSearchType(s.Type)),
		search.WithSources(parseSources(s.Sources)),
		search.WithPageSize(config.PageSize),
	)
	defer orch.Close()

	orch.Submit(query)
	for page := 1; page < s.Page; page++ {
		<-done
		orch.LoadNextPage()
	}

	state := <-done
	if state.Kind == search.StateError {
		return state.Err
	}

	printBooks(state.Books, state.Total)
	return nil
}

func (b *BrowseCmd) Run() error {
	client := newCatalogClient()

	return tui.Browse(client,
		search.WithSearchType(parseSearchType(b.Type)),
		search.WithSources(parseSources(b.Sources)),
		search.WithPageSize(config.PageSize),
		search.WithDebounceWindow(config.DebounceWindow),
	)
}

func (d *DetailCmd) Run() error {
	client := newCatalogClient()

	source := book.SourceGoogleBooks
	if d.Source == "openlibrary" {
		source = book.SourceOpenLibrary
	}

	done := make(chan search.DetailState, 1)
	presenter := search.DetailPresenterFunc(func(state search.DetailState) {
		if state.Kind == search.StateSuccess || state.Kind == search.StateError {
			select {
			case done <- state:
			default:
			}
		}
	})

	resolver := search.NewDetailResolver(client, presenter)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resolver.Resolve(ctx, d.ID, source)

	state := <-done
	if state.Kind == search.StateError {
		return state.Err
	}

	printDetail(state.Book)
	return nil
}

func (s *ShelfListCmd) Run() error {
	user := s.User
	if user == "" {
		user = config.ShelfUserID
	}
	if user == "" {
		return fmt.Errorf("user ID is required (provide via --user flag or shelf.userid in config)")
	}

	client := newCatalogClient()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	shelves, err := client.Bookshelves(ctx, user)
	if err != nil {
		return err
	}

	for _, shelf := range shelves {
		fmt.Printf("%d\t%s\t%d volumes\n", shelf.ID, shelf.Title, shelf.VolumeCount)
	}
	return nil
}

func (s *ShelfVolumesCmd) Run() error {
	user := s.User
	if user == "" {
		user = config.ShelfUserID
	}
	if user == "" {
		return fmt.Errorf("user ID is required (provide via --user flag or shelf.userid in config)")
	}

	client := newCatalogClient()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	books, total, err := client.ShelfVolumes(ctx, user, s.Shelf)
	if err != nil {
		return err
	}

	printBooks(books, total)
	return nil
}

func (s *ShelfAddCmd) Run() error {
	if config.GoogleBooksAPIKey == "" {
		return fmt.Errorf("API key is required for bookshelf mutations (provide via --api-key flag or GOOGLE_BOOKS_API_KEY)")
	}

	client := newCatalogClient()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := client.AddToShelf(ctx, s.Shelf, s.Volume); err != nil {
		return err
	}

	slog.Info("Volume added to shelf", "shelf", s.Shelf, "volume", s.Volume)
	return nil
}

func (s *ShelfRemoveCmd) Run() error {
	if config.GoogleBooksAPIKey == "" {
		return fmt.Errorf("API key is required for bookshelf mutations (provide via --api-key flag or GOOGLE_BOOKS_API_KEY)")
	}

	client := newCatalogClient()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := client.RemoveFromShelf(ctx, s.Shelf, s.Volume); err != nil {
		return err
	}

	slog.Info("Volume removed from shelf", "shelf", s.Shelf, "volume", s.Volume)
	return nil
}

func printBooks(books []book.Book, total int) {
	fmt.Printf("%d results\n\n", total)
	for _, b := range books {
		label := "google"
		if b.Provider == book.SourceOpenLibrary {
			label = "openlibrary"
		}
		fmt.Printf("[%s] %s\n", label, b.Title)
		fmt.Printf("    %s · %s\n", strings.Join(b.Authors, ", "), b.PublishedDate)
		fmt.Printf("    id: %s\n", b.ID)
	}
}

func printDetail(b book.Book) {
	fmt.Println(b.Title)
	fmt.Println(strings.Join(b.Authors, ", "))
	fmt.Printf("Published: %s\n", b.PublishedDate)
	if b.PageCount > 0 {
		fmt.Printf("Pages: %d\n", b.PageCount)
	}
	if len(b.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(b.Categories, ", "))
	}
	if len(b.IndustryIdentifiers) > 0 {
		for _, id := range b.IndustryIdentifiers {
			fmt.Printf("%s: %s\n", id.Type, id.Identifier)
		}
	}
	if b.EbookAvailable != nil {
		ebook := "No"
		if *b.EbookAvailable {
			ebook = "Yes"
		}
		fmt.Printf("eBook available: %s\n", ebook)
	}
	fmt.Printf("\n%s\n", b.Description)
}
