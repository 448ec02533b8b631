// Package session owns the recognizer's per-session state: the active
// feature window fed by the ingestion path and the previous-session buffer
// read by export.
//
// The two buffers are guarded by independent mutexes. Ingest holds only the
// active lock, and only while appending and snapshotting the last window;
// inference runs on the snapshot outside the lock. ExportPrevious holds only
// the previous lock, and only while copying. EndSession takes both, previous
// first, and moves the active slice into the previous buffer.
//
// A prediction is voted under the active lock, and only if its window was
// taken from the session that is still active. An inference that finishes
// after its session ended is discarded.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
)

// ErrNoExporter is returned by ExportPrevious when no Exporter is configured.
var ErrNoExporter = errors.New("session: no exporter configured")

// Exporter persists a captured feature sequence under a gesture label.
type Exporter interface {
	Write(ctx context.Context, label gesture.Gesture, rows []features.Vector) (string, error)
}

// Config configures a Manager.
type Config struct {
	Adapter         *classifier.Adapter
	VoteSize        int
	ResetVotesOnEnd bool
	Exporter        Exporter
	Logger          *slog.Logger
}

// Event is a confirmed gesture.
type Event struct {
	Gesture gesture.Gesture `json:"gesture"`
	Session uint64          `json:"session"`
	Frames  int             `json:"frames"`
	Time    time.Time       `json:"time"`
}

// Export describes a written previous-session capture.
type Export struct {
	Label  gesture.Gesture `json:"label"`
	Path   string          `json:"path"`
	Frames int             `json:"frames"`
}

// Result describes what one Ingest call did.
type Result struct {
	// Frames is the active session length after the append.
	Frames int
	// Inferred is true when the classifier ran for this frame.
	Inferred bool
	// Prediction is the raw per-frame prediction (None without inference).
	Prediction classifier.Prediction
	// Confirmed is set when the voter confirmed a gesture on this frame.
	Confirmed *Event
	// Stale is true when the session ended while the window was being
	// classified. The prediction was not voted.
	Stale bool
}

// Stats is a point-in-time view of the manager.
type Stats struct {
	Session         uint64          `json:"session"`
	ActiveFrames    int             `json:"active_frames"`
	PreviousFrames  int             `json:"previous_frames"`
	Ingested        uint64          `json:"ingested"`
	Rejected        uint64          `json:"rejected"`
	Inferences      uint64          `json:"inferences"`
	InferenceErrors uint64          `json:"inference_errors"`
	Confirmed       uint64          `json:"confirmed"`
	LastGesture     gesture.Gesture `json:"last_gesture"`
	LastIngest      time.Time       `json:"last_ingest"`
}

// Manager is the session manager. Construct it with New.
type Manager struct {
	adapter    *classifier.Adapter
	voter      *gesture.Voter
	exporter   Exporter
	resetVotes bool
	logger     *slog.Logger

	activeMu sync.Mutex
	active   []features.Vector
	session  uint64

	prevMu   sync.Mutex
	previous []features.Vector

	listenersMu sync.RWMutex
	listeners   []func(Event)

	statsMu sync.Mutex
	stats   Stats
}

// New creates a Manager with an empty active session.
func New(cfg Config) (*Manager, error) {
	if cfg.Adapter == nil {
		return nil, errors.New("session: classifier adapter is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		adapter:    cfg.Adapter,
		voter:      gesture.NewVoter(cfg.VoteSize),
		exporter:   cfg.Exporter,
		resetVotes: cfg.ResetVotesOnEnd,
		logger:     logger.With("component", "session"),
		active:     make([]features.Vector, 0, cfg.Adapter.Window()),
		session:    1,
		stats:      Stats{Session: 1, LastGesture: gesture.None},
	}, nil
}

// OnGesture registers fn to be called for every confirmed gesture. Callbacks
// run on the ingesting goroutine after all locks are released.
func (m *Manager) OnGesture(fn func(Event)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Ingest extracts features from frame, appends them to the active session
// and, once the session holds at least a full window, classifies the last
// window and feeds the prediction to the voter.
//
// Invalid frames are rejected with a features error and leave all state
// untouched. An inference failure is returned as a classifier.InferenceError
// after the frame has been appended and None has been voted.
func (m *Manager) Ingest(frame landmark.Frame) (Result, error) {
	none := classifier.Prediction{Gesture: gesture.None, Index: -1}

	vec, err := features.Extract(frame)
	if err != nil {
		m.count(func(s *Stats) { s.Rejected++ })
		m.logger.Warn("frame rejected", "op", "ingest", "frames", len(frame), "error", err)
		return Result{Prediction: none}, err
	}

	m.activeMu.Lock()
	m.active = append(m.active, vec)
	n := len(m.active)
	session := m.session
	var window []features.Vector
	if w := m.adapter.Window(); n >= w {
		window = make([]features.Vector, w)
		copy(window, m.active[n-w:])
	}
	m.activeMu.Unlock()

	m.count(func(s *Stats) {
		s.Ingested++
		s.LastIngest = time.Now()
	})

	result := Result{Frames: n, Prediction: none}
	if window == nil {
		return result, nil
	}

	result.Inferred = true
	pred, inferErr := m.adapter.Classify(window)
	if inferErr != nil {
		m.count(func(s *Stats) {
			s.Inferences++
			s.InferenceErrors++
		})
		m.logger.Error("inference failed",
			"op", "classify",
			"session", session,
			"frames", n,
			"window", len(window),
			"error", inferErr,
		)
		pred = none
	} else {
		m.count(func(s *Stats) { s.Inferences++ })
	}
	result.Prediction = pred

	m.activeMu.Lock()
	if m.session != session {
		m.activeMu.Unlock()
		result.Stale = true
		m.logger.Debug("stale prediction dropped", "session", session, "gesture", pred.Gesture.String())
		return result, inferErr
	}
	g, ok := m.voter.Push(pred.Gesture)
	m.activeMu.Unlock()

	if ok {
		evt := Event{Gesture: g, Session: session, Frames: n, Time: time.Now()}
		result.Confirmed = &evt
		m.count(func(s *Stats) {
			s.Confirmed++
			s.LastGesture = g
		})
		m.logger.Info("gesture confirmed", "gesture", g.String(), "session", session, "frames", n)
		m.notify(evt)
	}

	return result, inferErr
}

// EndSession moves the active session into the previous-session buffer and
// starts a new, empty session. It returns the number of frames moved.
// Ending an empty session leaves an empty previous buffer.
func (m *Manager) EndSession() int {
	n, _ := m.endSession(0)
	return n
}

// EndSessionIf ends the active session only if its id is id. It reports
// whether the session was ended. Use it to end the session an Event was
// confirmed in without ending a newer one.
func (m *Manager) EndSessionIf(id uint64) (int, bool) {
	return m.endSession(id)
}

// endSession ends the active session. A non-zero id must match the active
// session id.
func (m *Manager) endSession(id uint64) (int, bool) {
	m.prevMu.Lock()
	m.activeMu.Lock()

	if id != 0 && id != m.session {
		m.activeMu.Unlock()
		m.prevMu.Unlock()
		return 0, false
	}

	ended := m.active
	m.previous = ended
	m.active = make([]features.Vector, 0, m.adapter.Window())
	endedID := m.session
	m.session++
	next := m.session
	if m.resetVotes {
		m.voter.Reset()
	}

	m.activeMu.Unlock()
	m.prevMu.Unlock()

	m.count(func(s *Stats) { s.Session = next })
	m.logger.Debug("session ended", "session", endedID, "frames", len(ended))
	return len(ended), true
}

// Session returns the id of the active session.
func (m *Manager) Session() uint64 {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()
	return m.session
}

// Previous returns a copy of the previous-session buffer.
func (m *Manager) Previous() []features.Vector {
	m.prevMu.Lock()
	defer m.prevMu.Unlock()

	out := make([]features.Vector, len(m.previous))
	copy(out, m.previous)
	return out
}

// ActiveFrames returns the current session length.
func (m *Manager) ActiveFrames() int {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()
	return len(m.active)
}

// ExportPrevious writes the previous-session buffer under label. The returned
// Export counts the rows actually written. It does not change any session
// state.
func (m *Manager) ExportPrevious(ctx context.Context, label gesture.Gesture) (Export, error) {
	out := Export{Label: label}
	if m.exporter == nil {
		return out, ErrNoExporter
	}

	rows := m.Previous()
	path, err := m.exporter.Write(ctx, label, rows)
	out.Path = path
	if err != nil {
		m.logger.Error("export failed", "op", "export", "label", label.String(), "frames", len(rows), "path", path, "error", err)
		return out, err
	}
	out.Frames = len(rows)
	m.logger.Info("session exported", "label", label.String(), "frames", len(rows), "path", path)
	return out, nil
}

// Stats returns a snapshot of the manager's counters.
func (m *Manager) Stats() Stats {
	active := m.ActiveFrames()
	m.prevMu.Lock()
	previous := len(m.previous)
	m.prevMu.Unlock()

	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	s := m.stats
	s.ActiveFrames = active
	s.PreviousFrames = previous
	return s
}

func (m *Manager) count(fn func(*Stats)) {
	m.statsMu.Lock()
	fn(&m.stats)
	m.statsMu.Unlock()
}

func (m *Manager) notify(evt Event) {
	m.listenersMu.RLock()
	listeners := slices.Clone(m.listeners)
	m.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(evt)
	}
}
