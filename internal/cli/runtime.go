package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"storyweave/internal/ai"
	"storyweave/internal/app"
	"storyweave/internal/auth"
	"storyweave/internal/catalog"
	"storyweave/internal/config"
	"storyweave/internal/content"
	"storyweave/internal/kv"
	"storyweave/internal/logging"
	"storyweave/internal/perm"
	"storyweave/internal/session"
	"storyweave/internal/store"

	"go.uber.org/zap"
)

// runtime is everything one process needs: storage, identity, assistant and the controller.
type runtime struct {
	cfg     *config.Config
	dir     string
	log     *zap.Logger
	db      *store.DB
	kv      kv.Store
	content *content.Store
	auth    *auth.Provider
	session *session.Adapter
	ai      ai.Assistant
	ctrl    *app.Controller
}

type runtimeOptions struct {
	// logFile sends logs to <dir>/storyweave.log instead of stderr (the TUI owns the terminal).
	logFile bool
}

func resolveDir(app *App, cfg *config.Config) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	if d := strings.TrimSpace(cfg.DataDir); d != "" {
		return d, nil
	}
	return config.Dir()
}

func openRuntime(ctx context.Context, a *App, opt runtimeOptions) (*runtime, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	dir, err := resolveDir(a, cfg)
	if err != nil {
		return nil, err
	}

	logOpt := logging.Options{Verbose: a.Verbose, Level: cfg.Logging.Level}
	if opt.logFile && !a.Ephemeral {
		logOpt.Path = filepath.Join(dir, "storyweave.log")
	}
	log, err := logging.New(logOpt)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, dir: dir, log: log}
	state := &store.State{}
	loaded := false
	if a.Ephemeral {
		rt.kv = kv.NewMemory()
	} else {
		db, err := store.Store{Dir: dir}.Open(ctx)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.db = db
		kvs, err := db.KV(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open kv: %w", err)
		}
		rt.kv = kvs
		state, loaded, err = db.LoadState(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load device state: %w", err)
		}
	}

	if !loaded {
		seed := a.Seed
		if seed == 0 {
			seed = cfg.Catalog.Seed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		n := cfg.Catalog.SeedSize
		if n == 0 {
			n = catalog.DefaultSeedSize
		}
		state.Stories = catalog.Seed(rand.New(rand.NewSource(seed)), n)
		log.Debug("seeded catalog", zap.Int64("seed", seed), zap.Int("stories", n))
	}

	rt.content = content.Load(rt.kv, log)
	rt.auth, err = auth.New(rt.kv, auth.Options{
		RequireConfirmation: cfg.Auth.RequireConfirmation,
		TTL:                 cfg.SessionTTL(),
		Logger:              log,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.session = session.NewAdapter(ctx, rt.auth, session.WithLogger(log))
	rt.ai = ai.New(ctx, ai.Config{APIKey: cfg.AI.APIKey, Model: cfg.AI.Model, MockDelay: cfg.MockDelay()}, log)

	rt.ctrl = app.FromState(state, app.Options{
		Identity: rt.session,
		Content:  rt.content,
		Logger:   log,
	})
	if !loaded && rt.db != nil {
		// Persist the generated catalog so ids stay stable across commands.
		if err := rt.db.SaveState(ctx, rt.ctrl.Snapshot()); err != nil {
			log.Warn("save seeded catalog", zap.Error(err))
		}
	}
	return rt, nil
}

// persist writes device state when the controller changed it.
func (rt *runtime) persist(ctx context.Context) error {
	if rt.db == nil {
		return nil
	}
	return rt.ctrl.Persist(ctx, rt.db)
}

func (rt *runtime) Close() {
	if rt.session != nil {
		rt.session.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.log.Debug("close store", zap.Error(err))
		}
	}
	_ = rt.log.Sync()
}

func (rt *runtime) requireUser() error {
	if rt.ctrl.User() == nil {
		return errSignInRequired
	}
	return nil
}

func (rt *runtime) requireAdmin() error {
	if !perm.CanManageContent(rt.ctrl.User()) {
		return errAdminRequired
	}
	return nil
}

// withRuntime opens a runtime for one CLI command and persists after fn succeeds.
func withRuntime(ctx context.Context, a *App, fn func(rt *runtime) error) error {
	rt, err := openRuntime(ctx, a, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := fn(rt); err != nil {
		return err
	}
	if err := rt.persist(ctx); err != nil {
		return errors.Join(errors.New("command succeeded but saving failed"), err)
	}
	return nil
}
