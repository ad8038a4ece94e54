package stave

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	DX     float64 `yaml:"dx,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Scale  float64 `yaml:"scale,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Mods   string  `yaml:"mods,omitempty"`
	Glyph  string  `yaml:"glyph,omitempty"`

	key  ebiten.Key
	mods KeyModifiers
}

type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var testActions = map[string]bool{
	"click": true, "drag": true, "hover": true, "wheel": true, "pinch": true,
	"key": true, "screenshot": true, "wait": true,
	"add_page": true, "remove_page": true, "glyph": true,
}

// TestRunner sequences injected input, editor actions and screenshots
// across frames for automated visual testing. Attach it with
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a test script. Scripts are JSON or YAML documents
// with a top-level "steps" list.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		if !testActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		mods, err := ParseModifiers(st.Mods)
		if err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
		st.mods = mods
		if st.Action == "key" {
			if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: key %q: %w", i, st.Key, err)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner; it advances once per Update.
func (e *Editor) SetTestRunner(r *TestRunner) {
	e.testRunner = r
}

// Done reports whether every step has executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if e.Injecting() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "hover":
		e.InjectHover(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.DX, st.DY, st.mods)
	case "pinch":
		e.InjectPinch(st.X, st.Y, st.Scale)
	case "key":
		e.InjectKey(st.key, st.mods)
	case "add_page":
		e.AddPage()
	case "remove_page":
		e.RemovePage()
	case "glyph":
		if _, err := e.InsertGlyph(st.Glyph); err != nil {
			e.log.Warn("test script: glyph", "glyph", st.Glyph, "err", err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !e.Injecting() {
		r.done = true
	}
}
