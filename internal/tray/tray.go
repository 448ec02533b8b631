// Package tray provides the system tray control path: pause recognition,
// end the current session and save the last session under a gesture label.
package tray

import (
	"reflect"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle     func(enabled bool)
	onEndSession func() int
	onSave       func(label gesture.Gesture)
	onSettings   func()
	onQuit       func()
	enabled      bool
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnEndSession sets the callback for the End Session item. It returns the
// number of frames in the ended session.
func (t *Tray) OnEndSession(fn func() int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEndSession = fn
}

// OnSave sets the callback for the Save Last Session As items.
func (t *Tray) OnSave(fn func(label gesture.Gesture)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSave = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Recognition")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	t.mu.Unlock()
	systray.AddSeparator()

	t.mu.Lock()
	t.menuLastGesture = systray.AddMenuItem(lastGestureTitle(gesture.None), "Last confirmed gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuEnd := systray.AddMenuItem("End Session", "Close the current session")
	menuSave := systray.AddMenuItem("Save Last Session As", "Label the previous session for training")
	labels := gesture.All()
	saveItems := make([]*systray.MenuItem, len(labels))
	for i, g := range labels {
		saveItems[i] = menuSave.AddSubMenuItem(g.String(), "Save the previous session as "+g.String())
	}
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Fixed cases first, then one per save item.
	cases := []reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(t.menuToggle.ClickedCh)},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(menuEnd.ClickedCh)},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(menuSettings.ClickedCh)},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(menuQuit.ClickedCh)},
	}
	const fixed = 4
	for _, item := range saveItems {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(item.ClickedCh)})
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			chosen, _, ok := reflect.Select(cases)
			if !ok {
				return
			}
			switch chosen {
			case 0:
				t.handleToggle()
			case 1:
				t.handleEndSession()
			case 2:
				t.handleSettings()
			case 3:
				t.handleQuit()
				return
			default:
				t.handleSave(labels[chosen-fixed])
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastGestureTitle(g gesture.Gesture) string {
	if !g.Valid() {
		return "Last: none"
	}
	return "Last: " + g.String()
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleEndSession handles the End Session menu item click.
func (t *Tray) handleEndSession() {
	t.mu.RLock()
	callback := t.onEndSession
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleSave handles a Save Last Session As submenu click.
func (t *Tray) handleSave(label gesture.Gesture) {
	t.mu.RLock()
	callback := t.onSave
	t.mu.RUnlock()

	if callback != nil {
		callback(label)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(g gesture.Gesture) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(g))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Quit stops the tray loop, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}
