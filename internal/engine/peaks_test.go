package engine

import (
	"context"
	"errors"
	"testing"
)

// rampStreamer yields n samples whose amplitude rises linearly to 1.
type rampStreamer struct {
	n, pos int
}

func (r *rampStreamer) Stream(samples [][2]float64) (int, bool) {
	if r.pos >= r.n {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && r.pos < r.n; i++ {
		v := float64(r.pos+1) / float64(r.n)
		samples[i] = [2]float64{v, -v}
		r.pos++
	}
	return i, true
}

func (r *rampStreamer) Err() error    { return nil }
func (r *rampStreamer) Len() int      { return r.n }
func (r *rampStreamer) Position() int { return r.pos }

func (r *rampStreamer) Seek(p int) error {
	r.pos = p
	return nil
}

func TestComputePeaks(t *testing.T) {
	s := &rampStreamer{n: 10000}
	peaks, err := computePeaks(context.Background(), s, 10)
	if err != nil {
		t.Fatalf("computePeaks() error = %v", err)
	}
	if len(peaks) != 10 {
		t.Fatalf("len(peaks) = %d, want 10", len(peaks))
	}
	if peaks[9] != 1 {
		t.Errorf("loudest bucket = %v, want 1", peaks[9])
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i] < peaks[i-1] {
			t.Errorf("peaks not rising at %d: %v", i, peaks)
		}
	}
	if s.Position() != 0 {
		t.Errorf("stream not rewound, position %d", s.Position())
	}
}

func TestComputePeaksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := computePeaks(ctx, &rampStreamer{n: 100}, 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestComputePeaksEmpty(t *testing.T) {
	peaks, err := computePeaks(context.Background(), &rampStreamer{}, 0)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(peaks) != defaultBars {
		t.Errorf("len(peaks) = %d, want %d", len(peaks), defaultBars)
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name  string
		peaks []float64
		width int
		want  []float64
	}{
		{"halve", []float64{0.1, 0.5, 0.3, 0.2}, 2, []float64{0.5, 0.3}},
		{"same width", []float64{0.1, 0.2}, 2, []float64{0.1, 0.2}},
		{"stretch", []float64{0.4, 0.8}, 4, []float64{0.4, 0.4, 0.8, 0.8}},
		{"zero width", []float64{1}, 0, nil},
		{"no peaks", nil, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.peaks, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("Resample() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Resample()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
