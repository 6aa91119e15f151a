package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/clients"
	"github.com/spacesedan/factcheck/internal/monitoring"
	"github.com/spacesedan/factcheck/internal/ui"
)

// stashTimeout bounds session store calls made while the UI starts or exits.
const stashTimeout = 3 * time.Second

func runInteractive(ctx context.Context, cfg *config.Config) error {
	store, err := clients.NewSessionStore(ctx, cfg.Session)
	if err != nil {
		slog.Warn("[Main] Session store unavailable, drafts will not survive a restart",
			slog.String("error", err.Error()))
		store = clients.NewMemorySessionStore(cfg.Session.TTL)
	}
	defer store.Close()

	opts := []ui.ModelOption{}
	if draft, ok := takeDraft(ctx, store); ok {
		opts = append(opts, ui.WithDraft(draft))
	}

	classifier := newClassifier(cfg)
	checker, canCheck := classifier.(monitoring.HealthChecker)
	if !canCheck {
		opts = append(opts, ui.WithHealth(monitoring.StatusReady))
	}

	model := ui.NewModel(ctx, opts...)
	view := ui.NewProgramView()
	controller := newController(classifier, view)
	defer controller.Close()
	controller.Bind(&model)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	view.Attach(program)

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	if canCheck {
		go monitoring.MonitorServiceHealth(monitorCtx, checker, cfg.UI.HealthInterval, &monitoring.ServiceHealth{},
			func(s monitoring.Status) { program.Send(ui.HealthMsg(s)) })
	}

	final, err := program.Run()
	stopMonitor()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	if m, ok := final.(ui.Model); ok {
		stashDraft(store, m.Draft())
	}
	return nil
}

func takeDraft(ctx context.Context, store clients.SessionStore) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, stashTimeout)
	defer cancel()

	draft, ok, err := store.Take(ctx, clients.SESSION_DRAFT_KEY)
	if err != nil {
		slog.Warn("[Main] Failed to restore draft", slog.String("error", err.Error()))
		return "", false
	}
	return draft, ok
}

func stashDraft(store clients.SessionStore, draft string) {
	if strings.TrimSpace(draft) == "" {
		return
	}
	// the command context may already be cancelled by the signal that ended the UI
	ctx, cancel := context.WithTimeout(context.Background(), stashTimeout)
	defer cancel()

	if err := store.Stash(ctx, clients.SESSION_DRAFT_KEY, draft); err != nil {
		slog.Warn("[Main] Failed to stash draft", slog.String("error", err.Error()))
	}
}
