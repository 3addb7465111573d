package state

import "github.com/dhdaines-go/playa/internal/types"

// MarkedFrame is one entry of the marked-content stack (§3): a tag name,
// an optional properties dictionary, and — when the properties carry an
// /MCID entry — the marked-content identifier linking this range to the
// logical structure tree.
type MarkedFrame struct {
	Tag   string
	Props types.Dict
	MCID  *int
}

// MarkedStack tracks BMC/BDC/EMC nesting (§4.8).
type MarkedStack struct {
	frames []MarkedFrame
}

// NewMarkedFrame builds a frame from a tag and properties dict, extracting
// /MCID when present. Shared by Push (BMC/BDC) and the content interpreter's
// MP/DP handling, which produces a standalone frame without pushing it.
func NewMarkedFrame(tag string, props types.Dict) MarkedFrame {
	f := MarkedFrame{Tag: tag, Props: props}
	if props != nil {
		if v, ok := props["MCID"].(int64); ok {
			mcid := int(v)
			f.MCID = &mcid
		}
	}
	return f
}

// Push implements BMC (tag only) and BDC (tag + properties).
func (s *MarkedStack) Push(tag string, props types.Dict) {
	s.frames = append(s.frames, NewMarkedFrame(tag, props))
}

// Pop implements EMC. A pop against an empty stack is silently absorbed
// per §4.8 ("mismatched pops are silently absorbed").
func (s *MarkedStack) Pop() {
	if n := len(s.frames); n > 0 {
		s.frames = s.frames[:n-1]
	}
}

// Depth reports the current nesting depth, for end-of-stream balance
// checks (§8 invariant 7).
func (s *MarkedStack) Depth() int { return len(s.frames) }

// Top returns the innermost active frame, or nil if the stack is empty.
func (s *MarkedStack) Top() *MarkedFrame {
	if n := len(s.frames); n > 0 {
		f := s.frames[n-1]
		return &f
	}
	return nil
}

// Snapshot returns an independent copy of the current stack, for
// attachment to a content object.
func (s *MarkedStack) Snapshot() []MarkedFrame {
	cp := make([]MarkedFrame, len(s.frames))
	copy(cp, s.frames)
	return cp
}
