package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var headless bool
	var noCamera bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recognizer with the HTTP API and tray menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if strings.TrimSpace(addr) == "" {
				addr = cfg.Server.Addr
			}

			st, err := store.New(cfg.Store.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			a, err := app.New(app.Config{Settings: cfg, Store: st, Logger: logger})
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.LoadTemplates(); err != nil {
				logger.Warn("failed to load templates", "error", err)
			}
			if err := a.DiscoverPlugins(); err != nil {
				logger.Warn("plugin discovery failed", "dir", cfg.Plugins.Dir, "error", err)
			}

			srv := server.New(server.Config{
				StaticDir:  cfg.Server.StaticDir,
				Store:      st,
				Recognizer: a,
				Logger:     logger,
			})

			var tr *tray.Tray
			if !headless {
				tr = tray.New()
			}
			a.OnGesture(func(evt session.Event) {
				srv.Events().Publish(evt)
				if tr != nil {
					tr.SetLastGesture(evt.Gesture)
				}
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noCamera {
				if err := a.Start(); err != nil {
					return fmt.Errorf("start camera pipeline: %w", err)
				}
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(runCtx, addr)
			}()

			if tr == nil {
				logger.Info("running headless", "addr", addr)
				select {
				case <-runCtx.Done():
					return <-errCh
				case err := <-errCh:
					return err
				}
			}

			wireTray(tr, a, addr, stop, logger)
			go func() {
				<-runCtx.Done()
				tr.Quit()
			}()
			tr.Run()

			stop()
			if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (defaults to server.addr)")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the tray menu")
	cmd.Flags().BoolVar(&noCamera, "no-camera", false, "Accept frames over HTTP only")
	return cmd
}

func wireTray(tr *tray.Tray, a *app.App, addr string, stop func(), logger *slog.Logger) {
	tr.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		logger.Info("recognition toggled", "enabled", enabled)
	})
	tr.OnEndSession(func() int {
		n := a.EndSession()
		logger.Info("session ended from tray", "frames", n)
		return n
	})
	tr.OnSave(func(label gesture.Gesture) {
		exp, err := a.ExportPrevious(context.Background(), label)
		if err != nil {
			logger.Error("export failed", "label", label.String(), "error", err)
			return
		}
		logger.Info("session exported", "label", label.String(), "path", exp.Path, "frames", exp.Frames)
	})
	tr.OnSettings(func() {
		url := "http://" + addr
		if strings.HasPrefix(addr, ":") {
			url = "http://localhost" + addr
		}
		if err := openBrowser(url); err != nil {
			logger.Warn("failed to open browser", "url", url, "error", err)
		}
	})
	tr.OnQuit(stop)
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}
