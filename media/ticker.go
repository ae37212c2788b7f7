// SPDX-License-Identifier: EPL-2.0

package media

import "time"

// Ticker delivers display-frame ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type frameTicker struct {
	t *time.Ticker
}

// NewFrameTicker ticks fps times per second. fps below 1 means 60.
func NewFrameTicker(fps int) Ticker {
	if fps < 1 {
		fps = 60
	}
	return frameTicker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (f frameTicker) C() <-chan time.Time { return f.t.C }
func (f frameTicker) Stop()               { f.t.Stop() }
