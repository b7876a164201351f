package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/desertthunder/wandrix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive comparison interface.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil || r.session == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.TUIFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	style := r.style
	if style == "raw" {
		style = "notty"
	}
	model := ui.NewModel(ctx, r.flow, r.session, ui.Options{Logger: fileLogger, Style: style})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
