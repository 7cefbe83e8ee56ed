package engine

import (
	"context"
	"math"

	"github.com/gopxl/beep/v2"
)

const defaultBars = 200

// computePeaks walks the whole stream once and returns the peak amplitude of
// each of bars equal-length buckets, normalized so the loudest is 1. The
// stream is rewound afterwards.
func computePeaks(ctx context.Context, s beep.StreamSeeker, bars int) ([]float64, error) {
	total := s.Len()
	if bars <= 0 {
		bars = defaultBars
	}
	peaks := make([]float64, bars)
	if total <= 0 {
		return peaks, nil
	}

	buf := make([][2]float64, 4096)
	pos := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			amp := math.Max(math.Abs(buf[i][0]), math.Abs(buf[i][1]))
			b := (pos + i) * bars / total
			if b >= bars {
				b = bars - 1
			}
			if amp > peaks[b] {
				peaks[b] = amp
			}
		}
		pos += n
		if !ok || n == 0 {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	normalize(peaks)
	return peaks, s.Seek(0)
}

func normalize(peaks []float64) {
	var max float64
	for _, p := range peaks {
		if p > max {
			max = p
		}
	}
	if max == 0 {
		return
	}
	for i := range peaks {
		peaks[i] /= max
	}
}

// Resample reduces peaks to width columns by taking the max of each span.
// It is used when the view is narrower than the computed waveform.
func Resample(peaks []float64, width int) []float64 {
	if width <= 0 || len(peaks) == 0 {
		return nil
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(peaks) / width
		hi := (i + 1) * len(peaks) / width
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(peaks) {
			hi = len(peaks)
		}
		for _, p := range peaks[lo:hi] {
			if p > out[i] {
				out[i] = p
			}
		}
	}
	return out
}
