package roi

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a test script. Coordinates are screen
// pixels.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"press": true, "move": true, "release": true, "cancel": true,
	"click": true, "drag": true, "delete": true,
	"edit": true, "view": true, "wait": true, "screenshot": true,
}

// TestRunner sequences injected pointer events, mode switches and
// screenshots across frames. Attach it with SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner. Its step method runs at the start of
// every Update, before input.
func (o *Overlay) SetTestRunner(runner *TestRunner) {
	o.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(o *Overlay) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(o.input.injectQueue) > 0 {
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
	case "press":
		o.InjectPress(st.X, st.Y)
	case "move":
		o.InjectMove(st.X, st.Y)
	case "release":
		o.InjectRelease(st.X, st.Y)
	case "cancel":
		o.InjectCancel()
	case "click":
		o.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		o.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "delete":
		o.DeleteActive()
	case "edit":
		o.SetEditing(true)
	case "view":
		o.SetEditing(false)
	case "screenshot":
		o.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(o.input.injectQueue) == 0 {
		r.done = true
	}
}
