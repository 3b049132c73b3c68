package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/pantrypal/internal/config"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/engine"
	"github.com/hammamikhairi/pantrypal/internal/gemini"
	"github.com/hammamikhairi/pantrypal/internal/gpt"
	"github.com/hammamikhairi/pantrypal/internal/logger"
	"github.com/hammamikhairi/pantrypal/internal/matcher"
	"github.com/hammamikhairi/pantrypal/internal/recipe"
	"github.com/hammamikhairi/pantrypal/internal/storage"
	"github.com/hammamikhairi/pantrypal/internal/storage/sqlite"
)

// runtime is everything a command needs, built from config.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *engine.Engine
	closers []func() error
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
}

// setup loads config, applies flags and wires the engine. withModel is
// false for commands that never reach the model.
func setup(ctx context.Context, withModel bool) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)

	validate := cfg.Validate
	if !withModel {
		validate = cfg.ValidateOffline
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	rt := &runtime{cfg: cfg}

	out, closeLog := openLog(cfg.Log.File)
	if closeLog != nil {
		rt.closers = append(rt.closers, closeLog)
	}
	rt.log = logger.New(logger.ParseLevel(cfg.Log.Level), out)
	rt.closers = append(rt.closers, func() error { _ = rt.log.Sync(); return nil })

	stores, err := buildStores(cfg, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var model domain.Model
	if withModel {
		if model, err = buildModel(ctx, cfg, rt.log); err != nil {
			rt.Close()
			return nil, err
		}
	}

	matcherOpts := []matcher.Option{matcher.WithCrossCheck(cfg.CrossCheckMode())}
	if len(cfg.Matcher.Staples) > 0 {
		matcherOpts = append(matcherOpts, matcher.WithStaples(cfg.Matcher.Staples))
	}
	rt.engine = engine.New(model, stores, rt.log,
		engine.WithMaxRounds(cfg.Flow.MaxRounds),
		engine.WithMatcherOptions(matcherOpts...),
	)
	rt.log.Info("pantrypal ready (owner=%s, provider=%s, storage=%s)",
		cfg.OwnerID, cfg.Model.Provider, cfg.Storage.Backend)
	return rt, nil
}

func applyFlags(cfg *config.Config) {
	if verbose {
		cfg.Log.Level = "verbose"
	}
	if quiet {
		cfg.Log.Level = "off"
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if ownerID != "" {
		cfg.OwnerID = ownerID
	}
}

// openLog keeps logs out of the REPL by writing them to a file. It falls
// back to stderr when the file cannot be opened.
func openLog(path string) (io.Writer, func() error) {
	if path == "" || path == "stderr" {
		return os.Stderr, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, nil
	}
	return f, f.Close
}

func buildStores(cfg *config.Config, rt *runtime) (engine.Stores, error) {
	recipes := recipe.NewMemorySource(rt.log)
	if cfg.RecipesFile != "" {
		n, err := recipes.LoadFile(cfg.RecipesFile)
		if err != nil {
			return engine.Stores{}, err
		}
		rt.log.Info("loaded %d recipes from %s", n, cfg.RecipesFile)
	}

	stores := engine.Stores{
		Recipes:  recipes,
		Sessions: storage.NewConversationStore(rt.log),
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		db, err := sqlite.Open(cfg.Storage.Path, rt.log)
		if err != nil {
			return engine.Stores{}, err
		}
		rt.closers = append(rt.closers, db.Close)
		stores.List = db.ListStore()
		stores.Pantry = db.PantryStore()
	default:
		stores.List = storage.NewListStore(rt.log)
		stores.Pantry = storage.NewPantryStore(rt.log)
	}
	return stores, nil
}

func buildModel(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.Model, error) {
	m := cfg.Model
	switch m.Provider {
	case config.ProviderOpenAI:
		opts := []gpt.ClientOption{
			gpt.WithTemperature(m.Temperature),
			gpt.WithMaxTokens(m.MaxTokens),
			gpt.WithHTTPTimeout(m.Timeout),
			gpt.WithRateLimit(m.RequestsPerMinute),
		}
		if m.Name != "" {
			opts = append(opts, gpt.WithModel(m.Name))
		}
		return gpt.NewClient(m.Endpoint, m.APIKey, log, opts...), nil
	default:
		opts := []gemini.Option{
			gemini.WithTemperature(m.Temperature),
			gemini.WithMaxTokens(int32(m.MaxTokens)),
			gemini.WithRateLimit(m.RequestsPerMinute),
		}
		if m.Name != "" {
			opts = append(opts, gemini.WithModel(m.Name))
		}
		return gemini.NewClient(ctx, m.APIKey, log, opts...)
	}
}
