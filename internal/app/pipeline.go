package app

import (
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
)

// runPipeline is the main detection loop that processes frames from the camera.
//
// Pipeline logic:
// 1. Read a frame at the camera FPS
// 2. Detect hands and keep the highest scoring one
// 3. Ingest its landmarks into the active session
// 4. End the session once no hand has been seen for the idle timeout
// 5. Stop when a finite source runs out of frames
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			a.checkIdle(now)

			frame, err := a.camera.ReadFrame()
			if errors.Is(err, capture.ErrNoMoreFrames) {
				n := a.sessions.EndSession()
				a.logger.Info("capture source exhausted", "frames", n)
				return
			}
			if err != nil {
				a.logger.Warn("error reading frame", "error", err)
				continue
			}

			err = a.processFrame(frame)
			frame.Close()
			if err != nil {
				a.logger.Debug("frame not ingested", "error", err)
			}
		}
	}
}

// processFrame runs hand detection on frame and ingests the primary hand.
// Frames without a hand are skipped.
func (a *App) processFrame(frame *gocv.Mat) error {
	d := a.Detector()
	if d == nil {
		return nil
	}

	hands, err := d.Detect(frame)
	if err != nil {
		return err
	}

	hand, ok := detector.Primary(hands)
	if !ok {
		return nil
	}

	_, err = a.Ingest(hand.Frame())
	return err
}
