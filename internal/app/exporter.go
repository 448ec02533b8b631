package app

import (
	"context"

	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// catalogExporter writes labelled sessions as CSV and records each one in
// the capture catalogue. A catalogue failure is logged; the CSV stands.
type catalogExporter struct {
	writer *export.Writer
	app    *App
}

func (e *catalogExporter) Write(ctx context.Context, label gesture.Gesture, rows []features.Vector) (string, error) {
	path, err := e.writer.Write(ctx, label, rows)
	if err != nil {
		return path, err
	}

	a := e.app
	if a.store == nil {
		return path, nil
	}

	c := &store.Capture{
		Label:    label,
		Width:    e.writer.Width(),
		Path:     path,
		Sequence: rows,
	}
	if err := a.store.Captures().Create(c); err != nil {
		a.logger.Warn("failed to record capture", "label", label.String(), "path", path, "error", err)
		return path, nil
	}
	a.logger.Debug("capture recorded", "id", c.ID, "label", label.String(), "frames", c.Frames)

	if a.usesTemplates() {
		if _, err := a.LoadTemplates(); err != nil {
			a.logger.Warn("failed to reload templates", "error", err)
		}
	}
	return path, nil
}
