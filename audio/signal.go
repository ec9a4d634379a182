package audio

import (
	"math"
	"time"
)

const (
	// FrameLength and HopLength are the analysis window used for RMS energy.
	FrameLength = 2048
	HopLength   = 512

	calibrationChunk      = 1024
	initialThreshold      = 300.0
	dynamicEnergyRatio    = 1.5
	dynamicEnergyDamping  = 0.15
	pcm16FullScale        = 32768.0
	DefaultCalibrationDur = 500 * time.Millisecond
)

// FrameRMS returns the root-mean-square energy of each analysis frame.
// The signal is zero padded by half a frame on both sides so frames are
// centred on their hop position.
func FrameRMS(w Waveform) []float64 {
	if len(w.Samples) == 0 {
		return nil
	}
	pad := FrameLength / 2
	padded := make([]float64, len(w.Samples)+2*pad)
	copy(padded[pad:], w.Samples)

	if len(padded) < FrameLength {
		return []float64{rms(padded)}
	}
	n := 1 + (len(padded)-FrameLength)/HopLength
	out := make([]float64, n)
	for i := range n {
		start := i * HopLength
		out[i] = rms(padded[start : start+FrameLength])
	}
	return out
}

// MeanRMS is the average of FrameRMS over the whole waveform.
func MeanRMS(w Waveform) float64 {
	frames := FrameRMS(w)
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, f := range frames {
		sum += f
	}
	return sum / float64(len(frames))
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Calibration is the outcome of listening to the ambient noise at the start
// of a clip. Energies are expressed in 16-bit PCM units (0 to 32767).
type Calibration struct {
	Window          time.Duration
	NoiseFloor      float64
	EnergyThreshold float64
}

// Calibrate adapts an energy threshold to the ambient noise found in the
// leading window of w. The threshold follows a damped moving target of
// 1.5 times each chunk's energy, starting from 300.
func Calibrate(w Waveform, window time.Duration) Calibration {
	head := w.Head(window)
	cal := Calibration{Window: head.Duration(), EnergyThreshold: initialThreshold}
	if head.SampleRate <= 0 || len(head.Samples) == 0 {
		return cal
	}

	secondsPerChunk := float64(calibrationChunk) / float64(head.SampleRate)
	damping := math.Pow(dynamicEnergyDamping, secondsPerChunk)

	var floor float64
	chunks := 0
	for start := 0; start < len(head.Samples); start += calibrationChunk {
		end := min(start+calibrationChunk, len(head.Samples))
		energy := rms(head.Samples[start:end]) * pcm16FullScale
		floor += energy
		chunks++
		target := energy * dynamicEnergyRatio
		cal.EnergyThreshold = cal.EnergyThreshold*damping + target*(1-damping)
	}
	cal.NoiseFloor = floor / float64(chunks)
	return cal
}

// Voiced reports whether any chunk of w rises above the calibrated
// threshold.
func (c Calibration) Voiced(w Waveform) bool {
	for start := 0; start < len(w.Samples); start += calibrationChunk {
		end := min(start+calibrationChunk, len(w.Samples))
		if rms(w.Samples[start:end])*pcm16FullScale > c.EnergyThreshold {
			return true
		}
	}
	return false
}
