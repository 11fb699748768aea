package shell

import "testing"

func TestInputStateTicks(t *testing.T) {
	var state inputState

	state.press(KeySpace)

	in := state.snapshot()
	if !in.IsKeyPressed(KeySpace) || !in.IsKeyJustPressed(KeySpace) {
		t.Fatalf("space not reported after press: %+v", in)
	}

	// next frame: still held, no longer "just" pressed
	state.nextTick()

	in = state.snapshot()
	if !in.IsKeyPressed(KeySpace) {
		t.Error("space no longer pressed after tick")
	}

	if in.IsKeyJustPressed(KeySpace) {
		t.Error("space still just-pressed after tick")
	}

	state.release(KeySpace)

	if state.snapshot().IsKeyPressed(KeySpace) {
		t.Error("space still pressed after release")
	}
}

func TestInputStateReleaseWithoutPress(t *testing.T) {
	var state inputState

	// must not panic on nil maps
	state.release(KeyEscape)
	state.nextTick()

	in := state.snapshot()
	if in.IsKeyPressed(KeyEscape) || in.IsKeyJustPressed(KeyEscape) {
		t.Errorf("escape reported without press: %+v", in)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeySpace, "Space"},
		{KeyEscape, "Escape"},
		{KeyP, "P"},
		{KeyUnknown, "Unknown"},
		{Key(999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key(%d).String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}
