//go:build !((linux && cgo) || windows || darwin)

package engine

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// AudioAvailable reports whether this build drives a real sound device.
// Without cgo there are no native sound libraries, so audio is consumed
// in real time by a silent sink. Position, seeking and finish events still
// behave as with a speaker.
const AudioAvailable = false

const nullSinkTick = 20 * time.Millisecond

type nullOutput struct{}

var sink = &nullSink{}

type nullSink struct {
	mu        sync.Mutex
	once      sync.Once
	rate      beep.SampleRate
	streamers []beep.Streamer
}

func newOutput() output { return nullOutput{} }

func (nullOutput) init(sr beep.SampleRate) error {
	sink.once.Do(func() {
		sink.rate = sr
		go sink.run()
	})
	return nil
}

func (nullOutput) play(s beep.Streamer) {
	sink.mu.Lock()
	sink.streamers = append(sink.streamers, s)
	sink.mu.Unlock()
}

func (nullOutput) lock()   { sink.mu.Lock() }
func (nullOutput) unlock() { sink.mu.Unlock() }

func (s *nullSink) run() {
	buf := make([][2]float64, s.rate.N(nullSinkTick))
	ticker := time.NewTicker(nullSinkTick)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		live := s.streamers[:0]
		for _, st := range s.streamers {
			if n, ok := st.Stream(buf); ok && n > 0 {
				live = append(live, st)
			}
		}
		s.streamers = live
		s.mu.Unlock()
	}
}
