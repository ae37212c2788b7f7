// SPDX-License-Identifier: EPL-2.0

package audreact

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audreact/media"
)

// DefaultFrameRate is the calibration sampling rate without WithFrameRate.
const DefaultFrameRate = 60

type Option func(*options)

type options struct {
	logger  *logrus.Logger
	frames  func() media.Ticker
	onEnded func()
	now     func() time.Time
}

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return options{
		logger:  l,
		frames:  func() media.Ticker { return media.NewFrameTicker(DefaultFrameRate) },
		onEnded: func() {},
		now:     time.Now,
	}
}

// WithLogger sets the logger. Each instance adds its own "instance" field.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFrameRate samples calibration passes fps times per second.
func WithFrameRate(fps int) Option {
	return func(o *options) {
		o.frames = func() media.Ticker { return media.NewFrameTicker(fps) }
	}
}

// WithTicker replaces the frame ticker used by calibration passes. newTicker
// is called once per pass.
func WithTicker(newTicker func() media.Ticker) Option {
	return func(o *options) {
		if newTicker != nil {
			o.frames = newTicker
		}
	}
}

// WithOnEnded sets the end of track hook. See AudioReactive.OnEnded.
func WithOnEnded(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.onEnded = fn
		}
	}
}
