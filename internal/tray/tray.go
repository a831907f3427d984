// Package tray provides the system tray menu for bubbletype.
package tray

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

// refreshInterval is how often menu labels follow changes made elsewhere,
// such as from the web UI.
const refreshInterval = 500 * time.Millisecond

// Studio is the part of the app the tray menu drives.
type Studio interface {
	Current() glyph.Glyph
	Save() (glyph.Glyph, error)
	ClearStroke()
	Enabled() bool
	SetEnabled(enabled bool)
}

// Tray is the system tray application.
type Tray struct {
	studio     Studio
	logger     *zap.Logger
	onSettings func()
	onQuit     func()
	mu         sync.RWMutex

	menuToggle *systray.MenuItem
	menuLetter *systray.MenuItem
}

// New creates a tray bound to studio.
func New(studio Studio, logger *zap.Logger) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tray{studio: studio, logger: logger}
}

// OnSettings sets the callback for the "Open Studio" item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback for the "Quit" item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray and blocks until Quit is called or ctx is cancelled.
// It must be called from the main goroutine.
func (t *Tray) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(func() { t.onReady(ctx) }, func() {})
}

func (t *Tray) onReady(ctx context.Context) {
	systray.SetTitle("Bubbletype")
	systray.SetTooltip("Bubbletype hand lettering")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.studio.Enabled()), "Pause or resume hand input")
	systray.AddSeparator()
	t.menuLetter = systray.AddMenuItem(letterTitle(t.studio.Current()), "Letter being drawn")
	t.menuLetter.Disable()
	t.mu.Unlock()

	menuSave := systray.AddMenuItem("Save Letter", "Save the current stroke")
	menuClear := systray.AddMenuItem("Clear Stroke", "Clear the current stroke")
	systray.AddSeparator()
	menuSettings := systray.AddMenuItem("Open Studio...", "Open the studio in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Bubbletype")

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.refresh()
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSave.ClickedCh:
				t.handleSave()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.studio.SetEnabled(!t.studio.Enabled())
	t.refresh()
}

func (t *Tray) handleSave() {
	g, err := t.studio.Save()
	if err != nil {
		t.logger.Warn("save from tray failed", zap.Error(err))
		return
	}
	t.logger.Info("letter saved from tray", zap.String("letter", g.Letter))
	t.refresh()
}

func (t *Tray) handleClear() {
	t.studio.ClearStroke()
	t.refresh()
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// refresh updates menu labels from the studio. It is a no-op before the
// tray is ready.
func (t *Tray) refresh() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(t.studio.Enabled()))
	}
	if t.menuLetter != nil {
		t.menuLetter.SetTitle(letterTitle(t.studio.Current()))
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Drawing Enabled"
	}
	return "○ Drawing Paused"
}

func letterTitle(g glyph.Glyph) string {
	return fmt.Sprintf("Letter: %s (%d dots)", g.Letter, len(g.Dots))
}
