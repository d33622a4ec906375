package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/config"
	"github.com/adrianliechti/wingman-ask/pkg/log"
	"github.com/adrianliechti/wingman-ask/pkg/question"
	"github.com/adrianliechti/wingman-ask/pkg/tool/askuser"
	"github.com/adrianliechti/wingman-ask/pkg/ui/terminal"
	"github.com/adrianliechti/wingman-ask/pkg/ui/web"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger

	Parser *question.Parser
	Bridge *ask.Bridge

	Provider *askuser.Provider

	closers []io.Closer
}

func New(cfg *config.Config) (*App, error) {
	logger, logCloser, err := log.New(cfg.Log.File, cfg.Log.Level)

	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	a := &App{
		Config: cfg,
		Logger: logger,

		Parser: &question.Parser{
			MaxOptions: cfg.MaxOptions,
		},
	}

	var ui ask.UI

	switch cfg.UI {
	case config.UITerminal:
		ui = terminal.New(
			terminal.WithDevice(cfg.Terminal.Device),
			terminal.WithStyle(cfg.Terminal.Style),
			terminal.WithMaxFileBytes(cfg.MaxImageBytes),
		)

	default:
		options := []web.Option{
			web.WithAddr(cfg.Web.Addr),
			web.WithLimits(cfg.Limits()),
			web.WithLogger(logger),
		}

		if !cfg.OpenBrowser() {
			options = append(options, web.WithOpener(func(url string) error {
				return nil
			}))
		}

		w := web.New(options...)

		ui = w
		a.closers = append(a.closers, w)
	}

	a.Bridge = ask.New(ui,
		ask.WithLimits(cfg.Limits()),
		ask.WithLogger(logger),
	)

	a.Provider = askuser.New(a.Bridge,
		askuser.WithParser(a.Parser),
		askuser.WithTimeout(cfg.Timeout.Std()),
	)

	a.closers = append(a.closers, logCloser)

	logger.Debug("app ready", "ui", cfg.UI, "config", cfg.Path)

	return a, nil
}

// Close stops the UI loop, then the web server and finally the log file.
func (a *App) Close() error {
	a.Bridge.Close()

	var errs []error

	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
