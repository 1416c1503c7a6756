package bridge

import (
	"pipelined.dev/signal"

	"github.com/justyntemme/synthbridge/pkg/engine"
)

// Render fills out with frames stereo frames of interleaved int16 audio.
// The engine renders in its own fixed block size, so one call here runs
// several engine blocks. A nil instance or a destroyed engine yields
// silence. out must hold at least 2*frames samples.
func (inst *Instance) Render(out []int16, frames int) {
	if inst == nil {
		zeroFill(out, frames)
		return
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.eng == nil {
		zeroFill(out, frames)
		return
	}
	if inst.fblock == nil {
		inst.fblock = signal.Allocator{
			Channels: 2,
			Length:   engine.BlockSize,
			Capacity: engine.BlockSize,
		}.Float32()
		inst.iblock = signal.Allocator{
			Channels: 2,
			Length:   engine.BlockSize,
			Capacity: engine.BlockSize,
		}.Int16(signal.BitDepth16)
	}

	done := 0
	for done < frames {
		inst.eng.Process()
		left, right := inst.eng.Output()

		n := frames - done
		if n > engine.BlockSize {
			n = engine.BlockSize
		}
		inst.convertBlock(out[2*done:], left, right, n)
		done += n
	}
}

// convertBlock scales one engine block by the output gain, hard-clips and
// interleaves it into out as int16 samples.
func (inst *Instance) convertBlock(out []int16, left, right []float32, n int) {
	for i := 0; i < n; i++ {
		inst.fblock.SetSample(inst.fblock.BufferIndex(0, i), float64(clip(left[i]*inst.gain)))
		inst.fblock.SetSample(inst.fblock.BufferIndex(1, i), float64(clip(right[i]*inst.gain)))
	}
	signal.FloatingAsSigned(inst.fblock, inst.iblock)
	for i := 0; i < n; i++ {
		out[2*i] = clampInt16(inst.iblock.Sample(inst.iblock.BufferIndex(0, i)))
		out[2*i+1] = clampInt16(inst.iblock.Sample(inst.iblock.BufferIndex(1, i)))
	}
}

func clip(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func clampInt16(v int64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func zeroFill(out []int16, frames int) {
	n := 2 * frames
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = 0
	}
}
