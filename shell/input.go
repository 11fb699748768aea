package shell

// Key identifies a keyboard key the shell cares about. Only a small set
// is mapped, everything else is reported as KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyP
)

func (k Key) String() string {
	switch k {
	case KeySpace:
		return "Space"
	case KeyEscape:
		return "Escape"
	case KeyP:
		return "P"
	default:
		return "Unknown"
	}
}

// Input is the per-frame input snapshot passed to the render callback.
type Input struct {
	// keys that are currently held down
	Pressed map[Key]bool

	// keys that went down since the previous frame
	JustPressed map[Key]bool
}

func (in Input) IsKeyPressed(key Key) bool {
	return in.Pressed[key]
}

func (in Input) IsKeyJustPressed(key Key) bool {
	return in.JustPressed[key]
}

type inputState struct {
	pressed     map[Key]bool
	justPressed map[Key]bool
}

func (s *inputState) press(key Key) {
	setTrue(&s.pressed, key)
	setTrue(&s.justPressed, key)
}

func (s *inputState) release(key Key) {
	if s.pressed != nil {
		delete(s.pressed, key)
	}
}

func (s *inputState) nextTick() {
	clear(s.justPressed)
}

func (s *inputState) snapshot() Input {
	return Input{
		Pressed:     s.pressed,
		JustPressed: s.justPressed,
	}
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}
