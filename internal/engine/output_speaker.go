//go:build (linux && cgo) || windows || darwin

package engine

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable reports whether this build drives a real sound device.
const AudioAvailable = true

// speakerOutput plays through the system sound device. The speaker is
// process-wide, so it is initialized once and shared by every engine.
type speakerOutput struct{}

var (
	speakerOnce sync.Once
	speakerErr  error
)

func newOutput() output { return speakerOutput{} }

func (speakerOutput) init(sr beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sr, sr.N(time.Second/10))
	})
	return speakerErr
}

func (speakerOutput) play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) lock()                { speaker.Lock() }
func (speakerOutput) unlock()              { speaker.Unlock() }
