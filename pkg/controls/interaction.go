package controls

// InteractionState is what a containing page can observe about the
// viewer. It is created at mount, mutated by pointer events and reset on
// unmount.
type InteractionState struct {
	Hovered    bool
	Orbiting   bool
	AutoRotate bool
}

// NewInteractionState returns the mount-time state.
func NewInteractionState(autoRotate bool) InteractionState {
	return InteractionState{AutoRotate: autoRotate}
}

// ToggleLabel is the text for the auto-rotate button.
func (s InteractionState) ToggleLabel() string {
	if s.AutoRotate {
		return "Stop Rotation"
	}
	return "Auto Rotate"
}
