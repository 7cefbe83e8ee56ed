package engine

import "github.com/gopxl/beep/v2"

// output is where decoded audio is sent. lock and unlock guard streamer
// state shared with the output goroutine.
type output interface {
	init(sr beep.SampleRate) error
	play(s beep.Streamer)
	lock()
	unlock()
}
