package systems

// InputState carries the per-frame pointer state supplied by the host. The
// host projects the mouse/touch position into world space before handing it
// to the simulation; the core never talks to the windowing layer itself.
type InputState struct {
	Pointer Vec3 // pointer position projected onto the interaction plane
	Pressed bool // primary button or touch held this frame
}
