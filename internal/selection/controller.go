package selection

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/jonathan/brief-studio/internal/types"
)

// MinSelectionRunes is the minimum trimmed selection length that opens the
// action toolbar. Shorter selections are treated as accidental and ignored.
const MinSelectionRunes = 5

// contextRadius is how many runes around the selection are sent to the
// rewrite service when the caller supplies no explicit context window.
const contextRadius = 200

// toolbarGap is the vertical distance between the selection box and the
// toolbar anchor.
const toolbarGap = 44

// Phase is the controller's position in the editing workflow.
type Phase string

// Workflow phases. The only suspension point is the rewrite call: while
// Rewriting, the editable region is disabled and Capture/Cancel are inert,
// which is the sole concurrency control (one outstanding call per session).
const (
	PhaseIdle                Phase = "idle"
	PhaseSelected            Phase = "selected"
	PhaseAwaitingInstruction Phase = "awaiting_instruction"
	PhaseRewriting           Phase = "rewriting"
)

// Rewriter performs the asynchronous rewrite call.
type Rewriter interface {
	Rewrite(ctx context.Context, req types.RewriteRequest) (string, error)
}

// Controller drives one editing session over a backing document string.
type Controller struct {
	provider Provider
	rewriter Rewriter
	onChange func(newContent string)

	source      string
	language    string
	phase       Phase
	state       types.SelectionState
	instruction string
	// contextWindow, when set by the caller, overrides the computed
	// fallback window around the selection.
	contextWindow string
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnChange sets the callback fired with the full new document content
// after a successful rewrite. The caller owns persistence.
func WithOnChange(fn func(string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithLanguage sets the language passed through to the rewrite service.
func WithLanguage(lang string) Option {
	return func(c *Controller) { c.language = lang }
}

// NewController creates a controller for source with the given selection
// provider and rewrite backend.
func NewController(source string, provider Provider, rewriter Rewriter, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		rewriter: rewriter,
		source:   source,
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current workflow phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Source returns the current backing document.
func (c *Controller) Source() string {
	return c.source
}

// State returns a copy of the captured selection state.
func (c *Controller) State() types.SelectionState {
	return c.state
}

// SetContextWindow supplies an explicit context string for the next rewrite,
// replacing the computed window around the selection.
func (c *Controller) SetContextWindow(ctxWindow string) {
	c.contextWindow = ctxWindow
}

// SetInstruction stores the free-text instruction collected while in
// AwaitingInstruction.
func (c *Controller) SetInstruction(text string) {
	c.instruction = text
}

// Capture reads the live selection and, if it is long enough, transitions to
// Selected with offsets and toolbar anchor computed. Returns true when a
// selection was accepted. Inert while a rewrite is in flight.
//
// Offsets are trimmed consistently: leading whitespace in the raw selection
// advances Start, and End is Start plus the trimmed length, so the captured
// range always slices exactly to SelectedText.
func (c *Controller) Capture() bool {
	if c.phase == PhaseRewriting {
		return false
	}

	snap, ok := c.provider.Current()
	if !ok {
		c.reset()
		return false
	}

	trimmed := strings.TrimSpace(snap.Text)
	if len([]rune(trimmed)) < MinSelectionRunes {
		c.reset()
		return false
	}

	leading := leadingSpaceRunes(snap.Text)
	start := snap.Start + leading
	end := start + len([]rune(trimmed))
	if start < 0 || end > len([]rune(c.source)) {
		c.reset()
		return false
	}
	if sliceRunes(c.source, start, end) != trimmed {
		// Provider and backing text disagree; the document changed
		// between render and capture.
		log.Printf("[SELECTION] stale capture at [%d,%d), ignoring", start, end)
		c.reset()
		return false
	}

	c.state = types.SelectionState{
		SourceText:    c.source,
		SelectedText:  trimmed,
		Range:         types.OffsetRange{Start: start, End: end},
		ToolbarAnchor: toolbarAnchor(snap.Bounds, snap.Container),
	}
	c.phase = PhaseSelected
	return true
}

// ChooseAction reacts to the user picking a transform from the toolbar.
// Rewrite/expand/shorten start the rewrite immediately. Custom first
// transitions to AwaitingInstruction; invoked again with a non-empty stored
// instruction it proceeds to the rewrite.
func (c *Controller) ChooseAction(ctx context.Context, action types.RewriteAction) error {
	if c.phase != PhaseSelected && c.phase != PhaseAwaitingInstruction {
		return fmt.Errorf("no active selection")
	}
	if !action.IsValid() {
		return fmt.Errorf("unknown rewrite action %q", action)
	}

	if action.RequiresInstruction() && strings.TrimSpace(c.instruction) == "" {
		c.phase = PhaseAwaitingInstruction
		return nil
	}

	return c.runRewrite(ctx, action)
}

// Cancel discards the captured selection and instruction from Selected or
// AwaitingInstruction. It has no effect once a rewrite has started.
func (c *Controller) Cancel() {
	if c.phase == PhaseRewriting || c.phase == PhaseIdle {
		return
	}
	c.reset()
}

// runRewrite performs the rewrite call and applies the result. Whatever the
// outcome, the controller ends Idle: on failure the document is untouched and
// the user's edit intent is discarded, not retried.
func (c *Controller) runRewrite(ctx context.Context, action types.RewriteAction) error {
	c.phase = PhaseRewriting

	req := types.RewriteRequest{
		Text:        c.state.SelectedText,
		Action:      action,
		Context:     c.window(),
		Instruction: strings.TrimSpace(c.instruction),
		Language:    c.language,
	}

	reply, err := c.rewriter.Rewrite(ctx, req)
	if err != nil {
		log.Printf("[REWRITE] %s failed: %v", action, err)
		c.reset()
		return err
	}

	c.source = Apply(c.source, c.state.Range, reply)
	if c.onChange != nil {
		c.onChange(c.source)
	}
	c.reset()
	return nil
}

// window returns the caller-supplied context window, or the fallback window
// around the selection.
func (c *Controller) window() string {
	if c.contextWindow != "" {
		return c.contextWindow
	}
	return ContextWindow(c.state.SourceText, c.state.Range)
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.state = types.SelectionState{}
	c.instruction = ""
	c.contextWindow = ""
}

// Apply replaces the half-open rune range rng in source with replacement.
// Offsets outside the document are clamped.
func Apply(source string, rng types.OffsetRange, replacement string) string {
	runes := []rune(source)
	start := max(0, min(rng.Start, len(runes)))
	end := max(start, min(rng.End, len(runes)))
	return string(runes[:start]) + replacement + string(runes[end:])
}

// ContextWindow returns the slice of contextRadius runes on each side of rng,
// clamped to the document bounds.
func ContextWindow(source string, rng types.OffsetRange) string {
	runes := []rune(source)
	start := max(0, min(rng.Start, len(runes))-contextRadius)
	end := min(len(runes), max(rng.End, 0)+contextRadius)
	if start > end {
		return ""
	}
	return string(runes[start:end])
}

// Excerpt returns the text covered by the half-open rune range rng, clamped
// to the document bounds.
func Excerpt(source string, rng types.OffsetRange) string {
	runes := []rune(source)
	start := max(0, min(rng.Start, len(runes)))
	end := max(start, min(rng.End, len(runes)))
	return string(runes[start:end])
}

// toolbarAnchor positions the toolbar above the selection, horizontally
// centered, relative to the editable container. The vertical offset is
// clamped so it is never negative.
func toolbarAnchor(bounds, container types.Box) types.Point {
	x := bounds.Left - container.Left + bounds.Width/2
	y := bounds.Top - container.Top - toolbarGap
	if y < 0 {
		y = 0
	}
	return types.Point{X: x, Y: y}
}

func leadingSpaceRunes(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		count++
	}
	return count
}

func sliceRunes(s string, start, end int) string {
	runes := []rune(s)
	if start < 0 || end > len(runes) || start > end {
		return ""
	}
	return string(runes[start:end])
}
