package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/DaanHessen/cramweek/internal/content"
	"github.com/DaanHessen/cramweek/internal/engine"
	"github.com/DaanHessen/cramweek/internal/store"
	"github.com/DaanHessen/cramweek/internal/text"
	"github.com/DaanHessen/cramweek/internal/ui"
	"github.com/DaanHessen/cramweek/internal/util"
)

var (
	version      = "0.1.0"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

const autoplaySteps = 2000

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()
	cfg := util.FromEnv()

	seedFlag := flag.String("seed", cfg.SeedText, "Run seed string (optional; random if omitted)")
	dsn := flag.String("dsn", cfg.DSN, "PostgreSQL DSN (empty uses the local SQLite file)")
	sqlitePath := flag.String("sqlite", cfg.SQLitePath, "SQLite save file")
	slot := flag.String("slot", cfg.Slot, "Save slot name")
	theme := flag.String("theme", cfg.Theme, "Color theme: campus|midnight|paper")
	predict := flag.Bool("predict", cfg.PredictionMode, "Start with prediction mode on")
	fresh := flag.Bool("new", false, "Ignore the saved slot and start a new run")
	verbose := flag.Bool("v", false, "Debug logging to cramweek.log")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cramweek [--seed s] [--slot name] [--dsn DSN | --sqlite path] [--theme t] [--new] | migrate up|down | simulate N | slots | results | version\n")
	}
	flag.Parse()

	cfg.SeedText = strings.TrimSpace(*seedFlag)
	cfg.DSN = strings.TrimSpace(*dsn)
	cfg.SQLitePath = *sqlitePath
	cfg.Slot = *slot
	cfg.Theme = *theme
	cfg.PredictionMode = *predict

	catalog, err := content.Load()
	if err != nil {
		log.Fatalf("content invalid: %v", err)
	}
	cfg.RulesVersion = catalog.Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("cramweek", version, "content", catalog.Version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			migrateCmd(ctx, cfg.DSN, args[1])
			return
		case "simulate":
			n := 100
			if len(args) > 1 {
				if n, err = strconv.Atoi(args[1]); err != nil || n <= 0 {
					log.Fatal("simulate requires a positive run count")
				}
			}
			simulate(catalog, cfg.SeedText, n)
			return
		case "slots", "results":
			st, err := openStore(ctx, cfg, catalog)
			if err != nil {
				log.Fatalf("failed to open saves: %v", err)
			}
			defer st.Close()
			if args[0] == "slots" {
				listSlots(ctx, st)
			} else {
				listResults(ctx, st)
			}
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	setupLogging(*verbose)

	if cfg.SeedText == "" {
		generated, err := generateSeed()
		if err != nil {
			log.Fatalf("failed to generate seed: %v", err)
		}
		cfg.SeedText = generated
	}
	seed, err := engine.NewRunSeed(cfg.SeedText)
	if err != nil {
		log.Fatalf("invalid seed: %v", err)
	}
	seed = seed.WithSlot(cfg.Slot, cfg.RulesVersion)
	game := engine.NewGame(catalog, seed.Stream("game"))

	st, err := openStore(ctx, cfg, catalog)
	if err != nil {
		log.Fatalf("failed to open saves: %v", err)
	}
	defer st.Close()

	if !*fresh {
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		saved, err := st.Load(loadCtx, cfg.Slot)
		cancel()
		switch {
		case err == nil && !saved.Status.Terminal():
			game.Load(*saved)
			slog.Info("slot loaded", "slot", cfg.Slot, "day", saved.Day)
		case err != nil && !errors.Is(err, store.ErrSlotNotFound):
			log.Printf("could not load slot %q, starting fresh: %v", cfg.Slot, err)
		}
	}
	if cfg.PredictionMode {
		game.SetPredictionMode(true)
	}

	saver := &store.Autosaver{Store: st, Slot: cfg.Slot}
	game.OnChange = saver.Hook()
	defer saver.Close()

	narrator, closeNarrator := newNarrator(ctx, cfg)
	defer closeNarrator()
	archive, _ := st.(store.ResultArchive)
	if err := ui.Run(ctx, game, archive, narrator, cfg); err != nil {
		log.Fatal(err)
	}
}

func migrateCmd(ctx context.Context, dsn, action string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(dsn)
	if err != nil {
		log.Fatal(err)
	}
	switch action {
	case "up":
		if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	default:
		log.Fatal("unknown migrate action; use up|down")
	}
}

// openStore prefers Postgres when a DSN is configured and migrates it first.
func openStore(ctx context.Context, cfg util.Config, c *engine.Catalog) (store.SlotStore, error) {
	if !cfg.UsePostgres() {
		return store.OpenSQLite(ctx, cfg.SQLitePath, c)
	}
	mig, err := store.NewMigrator(cfg.DSN)
	if err != nil {
		return nil, err
	}
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mig.Up(migCtx); err != nil && !errors.Is(err, store.ErrNoChange) {
		return nil, err
	}
	db, err := store.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return store.NewPostgresStore(db, c), nil
}

// newNarrator returns the narrator chain and a func releasing its client.
func newNarrator(ctx context.Context, cfg util.Config) (text.Narrator, func()) {
	fallback := text.NewTemplateNarrator()
	if cfg.GeminiKey == "" {
		return fallback, func() {}
	}
	g, err := text.NewGeminiNarrator(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("Gemini unavailable: %v", err)
		return fallback, func() {}
	}
	closer := func() {
		if err := g.Close(); err != nil {
			slog.Warn("close gemini client", "err", err)
		}
	}
	return text.WithFallback(text.WithRetry(g, 2, time.Second), fallback), closer
}

// setupLogging keeps slog output away from the alt screen.
func setupLogging(verbose bool) {
	if !verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := os.OpenFile("cramweek.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func simulate(c *engine.Catalog, base string, n int) {
	if base == "" {
		base = "sim"
	}
	ranks := map[string]int{}
	statuses := map[engine.GameStatus]int{}
	var total float64
	for i := 0; i < n; i++ {
		seed, err := engine.NewRunSeed(fmt.Sprintf("%s-%d", base, i))
		if err != nil {
			log.Fatal(err)
		}
		g := engine.NewGame(c, seed.Stream("game"))
		st := engine.Autoplay(g, seed.Stream("policy"), autoplaySteps)
		statuses[st.Status]++
		if st.ExamResult != nil {
			ranks[st.ExamResult.Rank]++
			total += st.ExamResult.FinalScore
		} else {
			ranks["F"]++
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "runs\t%d\n", n)
	fmt.Fprintf(w, "pass rate\t%.1f%%\n", 100*float64(statuses[engine.StatusVictory])/float64(n))
	fmt.Fprintf(w, "mean score\t%.1f\n", total/float64(n))
	for _, s := range engine.AllGameStatuses {
		if statuses[s] > 0 {
			fmt.Fprintf(w, "%s\t%d\n", s, statuses[s])
		}
	}
	keys := make([]string, 0, len(ranks))
	for k := range ranks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "rank %s\t%d\n", k, ranks[k])
	}
	w.Flush()
}

func listSlots(ctx context.Context, st store.SlotStore) {
	slots, err := st.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tDAY\tSTATUS\tSAVED")
	for _, s := range slots {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Slot, s.Day, s.Status, s.SavedAt.Local().Format(time.DateTime))
	}
	w.Flush()
}

func listResults(ctx context.Context, st store.SlotStore) {
	arc, ok := st.(store.ResultArchive)
	if !ok {
		log.Fatal("this store keeps no results")
	}
	rows, err := arc.Results(ctx, 20)
	if err != nil {
		log.Fatal(err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tSLOT\tSTATUS\tSCORE\tRANK")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", r.FinishedAt.Local().Format(time.DateTime), r.Slot, r.Status, r.FinalScore, r.Rank)
	}
	w.Flush()
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
