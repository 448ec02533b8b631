package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// replayLine is one line of a recording. A line is either a frame object,
// a bare array of landmarks, or {"end_session": true}.
type replayLine struct {
	Points     detector.LandmarkFrame `json:"points"`
	EndSession bool                   `json:"end_session"`
}

type replaySummary struct {
	Frames   int
	Rejected int
	Errors   int
	Events   []session.Event
}

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var labelFlag string
	var dispatch bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "replay <frames.jsonl>",
		Short: "Feed recorded landmark frames through the recognizer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			label := gesture.None
			if labelFlag != "" {
				label, err = gesture.Parse(labelFlag)
				if err != nil {
					return err
				}
				if !label.Valid() {
					return fmt.Errorf("--label: %w: %s cannot be exported", gesture.ErrUnknownGesture, label)
				}
			}

			// The store is opened only when bound actions should run;
			// without it no dispatcher exists.
			var st *store.Store
			if dispatch {
				st, err = store.New(cfg.Store.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()
			}

			a, err := app.New(app.Config{
				Settings: replaySettings(cfg),
				Store:    st,
				Camera:   capture.NewMockCamera(nil, false),
				Detector: detector.NewMockDetector(),
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer a.Close()
			if dispatch {
				if err := a.DiscoverPlugins(); err != nil {
					logger.Warn("plugin discovery failed", "error", err)
				}
			}
			if _, err := a.LoadTemplates(); err != nil {
				logger.Warn("failed to load templates", "error", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open recording: %w", err)
			}
			defer f.Close()

			summary, err := replay(a, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				for _, evt := range summary.Events {
					if err := enc.Encode(evt); err != nil {
						return err
					}
				}
			} else {
				printReplaySummary(out, summary)
			}

			if label != gesture.None {
				exp, err := exportRecording(cmd, a, label)
				if err != nil {
					return err
				}
				if !jsonOut {
					fmt.Fprintf(out, "Exported %d frames as %s to %s\n", exp.Frames, label, exp.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&labelFlag, "label", "l", "", "Export the last session under this gesture label")
	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "Run the actions bound to confirmed gestures")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print confirmed gestures as JSON lines")
	return cmd
}

// replay ingests every frame from r. Rejected frames and inference errors
// are counted, not fatal.
func replay(a *app.App, r io.Reader) (replaySummary, error) {
	var summary replaySummary
	a.OnGesture(func(evt session.Event) {
		summary.Events = append(summary.Events, evt)
	})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var line replayLine
		if raw[0] == '[' {
			if err := json.Unmarshal(raw, &line.Points); err != nil {
				return summary, fmt.Errorf("line %d: %w", lineNo, err)
			}
		} else if err := json.Unmarshal(raw, &line); err != nil {
			return summary, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if line.EndSession {
			a.EndSession()
			continue
		}

		summary.Frames++
		_, err := a.Ingest(line.Points)
		var invalid *features.InvalidInputError
		var degenerate *features.DegenerateGeometryError
		var inference *classifier.InferenceError
		switch {
		case err == nil:
		case errors.As(err, &invalid), errors.As(err, &degenerate):
			summary.Rejected++
		case errors.As(err, &inference):
			summary.Errors++
		default:
			return summary, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read recording: %w", err)
	}
	return summary, nil
}

func exportRecording(cmd *cobra.Command, a *app.App, label gesture.Gesture) (session.Export, error) {
	if a.Stats().ActiveFrames > 0 {
		a.EndSession()
	}
	return a.ExportPrevious(cmd.Context(), label)
}

func printReplaySummary(out io.Writer, s replaySummary) {
	fmt.Fprintf(out, "Frames: %d  Rejected: %d  Inference errors: %d\n", s.Frames, s.Rejected, s.Errors)
	if len(s.Events) == 0 {
		fmt.Fprintln(out, "No gestures confirmed")
		return
	}

	rows := make([][]string, 0, len(s.Events))
	for _, evt := range s.Events {
		rows = append(rows, []string{
			evt.Gesture.String(),
			strconv.FormatUint(evt.Session, 10),
			strconv.Itoa(evt.Frames),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Gesture", "Session", "Frame"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
}

// replaySettings copies cfg with the idle timeout disabled; recordings carry
// no wall-clock gaps.
func replaySettings(cfg *config.Config) *config.Config {
	out := *cfg
	out.Camera.IdleTimeoutMS = 0
	return &out
}
