package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sandeepkv93/focusdeck/internal/config"
	"github.com/sandeepkv93/focusdeck/internal/httpapi"
	"github.com/sandeepkv93/focusdeck/internal/logging"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/persist"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/sound"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/timer"
	"github.com/sandeepkv93/focusdeck/internal/update"
)

const startupTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "focusdeck failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("focusdeck", flag.ContinueOnError)
	var flags config.CLIFlags
	fs.StringVar(&flags.ConfigPath, "config", "", "path to config.yaml")
	fs.StringVar(&flags.DBPath, "db", "", "path to the sqlite database")
	fs.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	serve := len(rest) > 0 && rest[0] == "serve"
	if serve {
		sfs := flag.NewFlagSet("serve", flag.ContinueOnError)
		sfs.StringVar(&flags.HTTPAddr, "addr", "", "listen address")
		if err := sfs.Parse(rest[1:]); err != nil {
			return err
		}
	} else if len(rest) > 0 {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger, closer, err := logging.Open(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := seedTemplates(ctx, repo, cfg.Templates, logger); err != nil {
		return err
	}

	if serve {
		return runServer(cfg, repo, logger)
	}
	return runTUI(ctx, cfg, repo, logger)
}

func runTUI(ctx context.Context, cfg config.RuntimeConfig, repo *storage.SQLiteRepository, logger *log.Logger) error {
	prefs, err := repo.GetPreferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if prefs.UpdatedAt.IsZero() {
		prefs = cfg.Preferences()
	}

	cards, restored, err := persist.Restore(ctx, repo)
	if err != nil {
		logger.Warn("restore deck failed", "err", err)
	}
	if !restored {
		cards = model.DefaultDeck(prefs.SessionMinutes, prefs.BreakMinutes)
	}

	var primary sound.Player = sound.NopPlayer{}
	if beepPlayer, err := sound.LoadBeepPlayer(cfg.SoundFile, 0); err != nil {
		logger.Warn("load sound failed", "file", cfg.SoundFile, "err", err)
	} else {
		primary = beepPlayer
	}
	chime := sound.NewCompletionChime(
		sound.FallbackPlayer{Primary: primary, Fallback: sound.BellPlayer{W: os.Stderr}},
		logger,
		prefs.SoundEnabled,
	)

	adapter := persist.New(repo, persist.WithLogger(logger))
	adapter.Start()

	engine := timer.New(cards,
		timer.WithHooks(timer.MultiHooks(adapter, chime)),
		timer.WithSettleDelay(cfg.SettleDelay),
		timer.WithAutoAdvance(prefs.AutoAdvance),
	)

	sched := scheduler.NewEngine(cfg.SchedulerBuffer)
	sched.Start()
	ticker := scheduler.NewTicker(cfg.TickInterval)

	defer func() {
		ticker.Stop()
		sched.Stop()
		adapter.Stop()
		chime.Wait()
	}()

	logger.Info("starting tui", "db", cfg.DBPath, "cards", len(cards), "restored", restored)
	m := update.NewModel(update.Deps{
		Engine:               engine,
		Scheduler:            sched,
		Ticker:               ticker,
		Repo:                 repo,
		Chime:                chime,
		Notifier:             update.ExecDesktopNotifier{},
		Logger:               logger,
		Preferences:          prefs,
		DesktopNotifications: cfg.DesktopNotifications,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func runServer(cfg config.RuntimeConfig, repo *storage.SQLiteRepository, logger *log.Logger) error {
	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(repo, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving api", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sig:
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	logger.Info("shutting down api")
	return srv.Shutdown(ctx)
}

// seedTemplates creates configured templates whose names are not stored yet.
// Existing templates are left untouched.
func seedTemplates(ctx context.Context, repo storage.Repository, templates []config.TemplateConfig, logger *log.Logger) error {
	for _, tc := range templates {
		_, err := repo.GetTemplateByName(ctx, tc.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("seed template %s: %w", tc.Name, err)
		}
		tpl := model.Template{ID: uuid.NewString(), Name: tc.Name, Cards: tc.Cards}
		if err := repo.CreateTemplate(ctx, tpl); err != nil {
			return fmt.Errorf("seed template %s: %w", tc.Name, err)
		}
		logger.Debug("seeded template", "name", tc.Name)
	}
	return nil
}
