// Package app wires the recognizer together: camera frames go through the
// hand detector into the session manager, and confirmed gestures are
// dispatched to the plugin action bound to them.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/classifier/onnx"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the collaborators of an App. Only Settings is required;
// nil collaborators are built from it.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
	Model    classifier.Model
	Logger   *slog.Logger
}

// App is the main application that orchestrates gesture recognition and action execution.
type App struct {
	settings   *config.Config
	store      *store.Store
	camera     capture.Camera
	detector   detector.Detector
	model      classifier.Model
	adapter    *classifier.Adapter
	templates  *gesture.Matcher
	sessions   *session.Manager
	writer     *export.Writer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	dispatcher *plugin.Dispatcher
	logger     *slog.Logger

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	// lastHand is the UnixNano time of the last ingested hand, 0 before any.
	lastHand atomic.Int64
}

// New creates a new App instance with the given configuration.
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		def := config.Default()
		settings = &def
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		settings:  settings,
		store:     cfg.Store,
		camera:    cfg.Camera,
		detector:  cfg.Detector,
		model:     cfg.Model,
		templates: gesture.NewMatcher(),
		logger:    logger.With("component", "app"),
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Config{
			Device: settings.Camera.Device,
			FPS:    settings.Camera.FPS,
		})
	}

	if a.detector == nil {
		dcfg := detector.DefaultConfig()
		dcfg.MaxHands = settings.Detector.MaxHands
		dcfg.ScriptPath = settings.Detector.Script
		dcfg.PythonPath = settings.Detector.Python
		if mp, err := detector.NewMediaPipeDetector(dcfg, logger); err == nil {
			a.detector = mp
			a.logger.Info("using MediaPipe hand detection")
		} else {
			a.logger.Warn("MediaPipe not available, using mock detector", "error", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if a.model == nil {
		if settings.Model.Path != "" {
			m, err := onnx.Load(settings.Model.Path)
			if err != nil {
				return nil, err
			}
			a.model = m
			a.logger.Info("using ONNX gesture model", "path", settings.Model.Path)
		} else {
			a.model = classifier.NewTemplateModel(a.templates)
			a.logger.Info("using template gesture model", "tolerance", settings.Model.TemplateTolerance)
		}
	}

	a.adapter = classifier.NewAdapter(a.model, classifier.Options{
		Window:    settings.Recognizer.WindowLength,
		Threshold: settings.Recognizer.ConfidenceThreshold,
	})

	a.writer = export.NewWriter(settings.Export.Dir, settings.Export.Width)

	sessions, err := session.New(session.Config{
		Adapter:         a.adapter,
		VoteSize:        settings.Recognizer.VoteSize,
		ResetVotesOnEnd: settings.Recognizer.ResetVotesOnEnd,
		Exporter:        &catalogExporter{writer: a.writer, app: a},
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	a.sessions = sessions

	a.pluginMgr = plugin.NewManager(settings.Plugins.Dir, logger)
	a.pluginExec = plugin.NewExecutor(settings.PluginTimeout())
	if a.store != nil {
		a.dispatcher = plugin.NewDispatcher(a.store.Bindings(), a.pluginMgr, a.pluginExec, logger)
	}

	a.sessions.OnGesture(a.handleGesture)

	return a, nil
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Ingest feeds one landmark frame to the session manager. It is used by the
// camera pipeline and by external frame sources.
func (a *App) Ingest(frame detector.LandmarkFrame) (session.Result, error) {
	a.lastHand.Store(time.Now().UnixNano())
	return a.sessions.Ingest(frame)
}

// EndSession ends the active session and returns the number of frames moved
// to the previous-session buffer.
func (a *App) EndSession() int {
	return a.sessions.EndSession()
}

// ExportPrevious writes the previous session under label and records it in
// the capture catalogue.
func (a *App) ExportPrevious(ctx context.Context, label gesture.Gesture) (session.Export, error) {
	return a.sessions.ExportPrevious(ctx, label)
}

// Stats returns the session manager's counters.
func (a *App) Stats() session.Stats {
	return a.sessions.Stats()
}

// OnGesture registers fn for confirmed gestures. Registered callbacks run
// after the bound action has been dispatched.
func (a *App) OnGesture(fn func(session.Event)) {
	a.sessions.OnGesture(fn)
}

// handleGesture dispatches the action bound to a confirmed gesture and, when
// configured, ends the session the gesture was confirmed in so the next
// gesture starts from scratch. A session that already ended is left alone.
func (a *App) handleGesture(evt session.Event) {
	if a.dispatcher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.pluginExec.Timeout()+time.Second)
	defer cancel()

	resp, err := a.dispatcher.Dispatch(ctx, evt.Gesture)
	if err != nil {
		a.logger.Error("dispatch failed", "gesture", evt.Gesture.String(), "session", evt.Session, "error", err)
		return
	}
	if resp == nil {
		return
	}
	if !resp.Success {
		a.logger.Warn("plugin action failed", "gesture", evt.Gesture.String(), "error", resp.Error)
	}

	if a.settings.Camera.EndSessionOnGesture {
		n, ok := a.sessions.EndSessionIf(evt.Session)
		if !ok {
			a.logger.Debug("session already ended", "gesture", evt.Gesture.String(), "session", evt.Session)
			return
		}
		a.logger.Debug("session ended after action", "gesture", evt.Gesture.String(), "frames", n)
	}
}

// checkIdle ends the active session when no hand has been ingested for the
// configured idle timeout. It reports whether a session was ended.
func (a *App) checkIdle(now time.Time) bool {
	timeout := a.settings.IdleTimeout()
	if timeout <= 0 {
		return false
	}
	last := a.lastHand.Load()
	if last == 0 || now.Sub(time.Unix(0, last)) < timeout {
		return false
	}
	if a.sessions.ActiveFrames() == 0 {
		return false
	}

	n := a.sessions.EndSession()
	a.logger.Debug("session ended after idle timeout", "frames", n, "timeout", timeout)
	return true
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	a.logger.Info("detection pipeline started", "fps", a.camera.FPS())
	return nil
}

// Stop halts the detection pipeline and closes the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("error closing camera", "error", err)
	}
	a.logger.Info("detection pipeline stopped")
}

// Close stops the pipeline and releases the detector and model.
func (a *App) Close() error {
	a.Stop()

	var firstErr error
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			firstErr = fmt.Errorf("close detector: %w", err)
		}
	}
	if c, ok := a.model.(io.Closer); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close model: %w", err)
		}
	}
	return firstErr
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Adapter returns the classifier adapter.
func (a *App) Adapter() *classifier.Adapter {
	return a.adapter
}

// Templates returns the matcher behind the template model.
func (a *App) Templates() *gesture.Matcher {
	return a.templates
}

// Store returns the catalogue store, which may be nil.
func (a *App) Store() *store.Store {
	return a.store
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Settings returns the configuration the app was built with.
func (a *App) Settings() *config.Config {
	return a.settings
}
