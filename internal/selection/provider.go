// Package selection implements the selection-and-rewrite workflow for the
// article editor: it tracks a live text selection inside an editable region,
// maps it to rune offsets in the backing string, positions a floating action
// toolbar, and applies offset-based replacement after an asynchronous rewrite
// call.
package selection

import "github.com/jonathan/brief-studio/internal/types"

// Snapshot is what a Provider reports about the current live selection.
// Text is the raw selected run, untrimmed. Start is the rune offset of the
// raw selection start within the plain-text projection of the editable
// region. Bounds and Container are viewport rectangles used only for toolbar
// placement.
type Snapshot struct {
	Text      string
	Start     int
	Bounds    types.Box
	Container types.Box
}

// Provider abstracts the ambient selection source (the browser's
// window.getSelection in the original surface) so the controller can be
// driven by synthetic selections in tests.
type Provider interface {
	// Current returns the live selection. ok is false when there is no
	// selection or the selection is collapsed.
	Current() (snap Snapshot, ok bool)
}

// StaticProvider is a Provider that always reports a fixed snapshot.
// Useful for tests and for replaying captured selections.
type StaticProvider struct {
	Snapshot Snapshot
	Empty    bool
}

// Current implements Provider.
func (p *StaticProvider) Current() (Snapshot, bool) {
	if p.Empty || p.Snapshot.Text == "" {
		return Snapshot{}, false
	}
	return p.Snapshot, true
}
