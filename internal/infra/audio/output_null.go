package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	zlog "github.com/rs/zerolog/log"
)

// NullOutput drains the source in real time without a device.
// It keeps the transport advancing on machines without audio hardware.
type NullOutput struct {
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

// NewNullOutput starts draining src at sampleRate frames per second.
func NewNullOutput(src beep.Streamer, sampleRate int, s NullSettings) *NullOutput {
	o := &NullOutput{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	period := time.Duration(s.PeriodMs) * time.Millisecond
	frames := sampleRate * s.PeriodMs / 1000
	if frames < 1 {
		frames = 1
	}

	zlog.Info().Msgf("audio: null output started: rate=%d period=%v", sampleRate, period)

	go func() {
		defer close(o.done)

		buf := make([][2]float64, frames)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-o.stopCh:
				return
			case <-ticker.C:
				src.Stream(buf)
			}
		}
	}()

	return o
}

// Close stops the drain goroutine and waits for it to exit.
func (o *NullOutput) Close() error {
	o.stopped.Do(func() {
		close(o.stopCh)
	})
	<-o.done
	return nil
}
