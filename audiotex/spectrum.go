// Package audiotex renders PCM audio into the two-row spectrum/waveform
// texture layout music shaders sample. All work happens on the CPU over
// caller-supplied samples; the output is deterministic for a given input.
package audiotex

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	fft "github.com/mjibson/go-dsp/fft"

	"github.com/richinsley/goshaderpipe/uniform"
)

const (
	textureWidth  = 512
	textureHeight = 2
	// A 2048-point FFT gives 1024 frequency bins; the texture keeps the
	// lower 512.
	fftInputSize = 2048

	minDecibels = -100.0
	maxDecibels = -30.0
)

// Spectrum renders samples into a 512x2 float image. Row 0 holds the FFT
// magnitude spectrum of the last 2048 samples (Blackman windowed, mapped
// from [-100dB,-30dB] to [0,1]); row 1 holds the most recent 512 waveform
// samples mapped from [-1,1] to [0,1]. Shorter inputs are zero-padded at
// the front. Values land in the R channel with alpha set to 1.
func Spectrum(samples []float32) *uniform.Image {
	recent := make([]float32, fftInputSize)
	if n := len(samples); n >= fftInputSize {
		copy(recent, samples[n-fftInputSize:])
	} else {
		copy(recent[fftInputSize-n:], samples)
	}

	window := blackmanWindow(fftInputSize)
	windowed := make([]float64, fftInputSize)
	for i, s := range recent {
		windowed[i] = float64(s) * window[i]
	}
	fftResult := fft.FFTReal(windowed)

	img := uniform.NewFloat(textureWidth, textureHeight)
	for i := 0; i < textureWidth; i++ {
		re := real(fftResult[i])
		im := imag(fftResult[i])
		// Normalize magnitude by 2/N for the non-DC/Nyquist components.
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(fftInputSize))
		db := 20 * math.Log10(magnitude+1e-9)

		var scaled float32
		if db < minDecibels {
			scaled = 0.0
		} else if db > maxDecibels {
			scaled = 1.0
		} else {
			scaled = float32((db - minDecibels) / (maxDecibels - minDecibels))
		}
		setTexel(img, 0, i, scaled)
	}

	wave := recent[fftInputSize-textureWidth:]
	for i := 0; i < textureWidth; i++ {
		setTexel(img, 1, i, (wave[i]+1.0)*0.5)
	}
	return img
}

func setTexel(img *uniform.Image, row, x int, value float32) {
	base := (row*textureWidth + x) * 4
	img.FloatPix[base] = value
	img.FloatPix[base+3] = 1.0
}

// ReadPCM decodes raw little-endian float32 samples, the layout ffmpeg emits
// for f32le output.
func ReadPCM(r io.Reader) ([]float32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("pcm data is %d bytes, not a whole number of float32 samples", len(data))
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples, nil
}

// blackmanWindow generates a Blackman window matching the browser audio
// analyser this texture layout comes from.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}
