package bridge

import (
	"testing"

	"github.com/justyntemme/synthbridge/pkg/engine"
)

func TestRenderRunsEngineBlocks(t *testing.T) {
	inst, fake := newTestInstance(t)

	frames := 128
	out := make([]int16, 2*frames)
	inst.Render(out, frames)

	want := frames / engine.BlockSize
	if fake.processCalls != want {
		t.Errorf("expected %d engine blocks for %d frames, got %d", want, frames, fake.processCalls)
	}
}

func TestRenderAppliesGain(t *testing.T) {
	inst, fake := newTestInstance(t)
	fake.fill = 1.0

	out := make([]int16, 2*engine.BlockSize)
	inst.Render(out, engine.BlockSize)

	// Full-scale engine output lands at the gain factor of full scale.
	gain := float64(DefaultGain)
	want := int16(gain * 32767)
	for i, s := range out {
		if s < want-40 || s > want+40 {
			t.Fatalf("sample %d: got %d, want about %d", i, s, want)
		}
	}
}

func TestRenderHardClips(t *testing.T) {
	inst, fake := newTestInstance(t)
	fake.fill = 100 // far past the gain headroom

	out := make([]int16, 2*engine.BlockSize)
	inst.Render(out, engine.BlockSize)

	for i, s := range out {
		if s < 32000 {
			t.Fatalf("sample %d: expected clip to positive full scale, got %d", i, s)
		}
	}

	fake.fill = -100
	inst.Render(out, engine.BlockSize)
	for i, s := range out {
		if s > -32000 {
			t.Fatalf("sample %d: expected clip to negative full scale, got %d", i, s)
		}
	}
}

func TestRenderSilenceIsZero(t *testing.T) {
	inst, _ := newTestInstance(t)

	out := make([]int16, 2*engine.BlockSize)
	for i := range out {
		out[i] = 123
	}
	inst.Render(out, engine.BlockSize)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d: silent engine should render zeros, got %d", i, s)
		}
	}
}

func TestRenderNilAndDestroyed(t *testing.T) {
	out := make([]int16, 2*engine.BlockSize)
	for i := range out {
		out[i] = 123
	}

	var nilInst *Instance
	nilInst.Render(out, engine.BlockSize)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("nil instance sample %d: got %d, want 0", i, s)
		}
	}

	inst, _ := newTestInstance(t)
	inst.Destroy()
	for i := range out {
		out[i] = 123
	}
	inst.Render(out, engine.BlockSize)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("destroyed instance sample %d: got %d, want 0", i, s)
		}
	}
}
