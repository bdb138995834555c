package cpp

// ifFrame is one level of conditional inclusion, matching
// original_source/src/include/cpp-internal.h's struct cpp_if exactly:
// two independent booleans rather than a single tri-state, because a
// branch can be skipped for two different reasons that must be tracked
// separately across #elif chains — "this branch's own condition was
// false" (skip_this_branch) versus "some earlier branch in this chain
// already matched, so every later branch must be skipped regardless of
// its own condition" (skip_next_branch).
type ifFrame struct {
	skipThisBranch bool
	skipNextBranch bool
}

// ifStack implements the #if/#ifdef/#ifndef/#elif/#else/#endif nesting.
// Its bottom frame is an artificial sentinel that is always "open"
// (skip_this_branch=false) and permanently closed to further branches
// (skip_next_branch=true), so top-level text is never itself considered
// part of a conditional group and EndIf on an empty stack is detectable
// (original_source/src/cpp-directives.c's ifstack_bottom).
type ifStack struct {
	frames []ifFrame
}

func newIfStack() *ifStack {
	return &ifStack{frames: []ifFrame{{skipThisBranch: false, skipNextBranch: true}}}
}

// top returns the innermost frame.
func (s *ifStack) top() *ifFrame {
	return &s.frames[len(s.frames)-1]
}

// Skipping reports whether tokens under the current frame should be
// discarded rather than passed through / macro-expanded.
func (s *ifStack) Skipping() bool {
	return s.top().skipThisBranch
}

// Depth reports nesting depth, the bottom sentinel excluded.
func (s *ifStack) Depth() int {
	return len(s.frames) - 1
}

// AtBottom reports whether no #if/#ifdef/#ifndef is currently open.
func (s *ifStack) AtBottom() bool {
	return len(s.frames) == 1
}

// PushIf opens a new conditional group with #if/#ifdef/#ifndef, where
// cond is the evaluated (or defined()-checked) condition of this first
// branch. Transition formula matches cpp_parse_directive's IF/IFDEF/IFNDEF
// case exactly.
func (s *ifStack) PushIf(cond bool) {
	parentSkip := s.top().skipThisBranch
	f := ifFrame{
		skipThisBranch: !cond || parentSkip,
	}
	f.skipNextBranch = parentSkip || !f.skipThisBranch
	s.frames = append(s.frames, f)
}

// Elif evaluates another branch of the currently-open group. cond has no
// effect when the frame's skip_next_branch is already set, since a prior
// branch already matched (or the parent is skipping); the caller still
// evaluates the #elif expression, so it is syntax-checked either way.
func (s *ifStack) Elif(cond bool) {
	f := s.top()
	f.skipThisBranch = !cond || f.skipNextBranch
	f.skipNextBranch = f.skipNextBranch || !f.skipThisBranch
}

// Else flips to the final, unconditional branch of the group.
func (s *ifStack) Else() {
	f := s.top()
	f.skipThisBranch = f.skipNextBranch
	f.skipNextBranch = true
}

// EndIf closes the innermost group. ok is false if called with no group
// open (an unbalanced #endif), in which case the stack is left untouched.
func (s *ifStack) EndIf() bool {
	if s.AtBottom() {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// CheckBalanced reports whether every opened group was closed, for
// end-of-file validation (an unterminated #if is an error per 6.10).
func (s *ifStack) CheckBalanced() bool {
	return s.AtBottom()
}
