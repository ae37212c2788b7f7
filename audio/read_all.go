// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
)

// ReadAll drains src into memory. It checks ctx between reads so a long
// decode can be abandoned.
//
// Returns the interleaved samples in src's channel layout. io.EOF is not
// reported as an error.
func ReadAll(ctx context.Context, src Source, bufferSize int) ([]float32, error) {
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	if ch := src.Channels(); ch > 1 {
		bufferSize -= bufferSize % ch
		if bufferSize == 0 {
			bufferSize = ch
		}
	}

	buf := make([]float32, bufferSize)
	out := make([]float32, 0, src.SampleRate()*src.Channels())
	stalls := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read stopped after %d samples: %w", len(out), err)
		}

		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		switch {
		case err == io.EOF:
			return out, nil
		case err != nil:
			return nil, fmt.Errorf("reading samples: %w", err)
		case n == 0:
			stalls++
			if stalls > maxStalls {
				return nil, ErrNoProgress
			}
		default:
			stalls = 0
		}
	}
}
