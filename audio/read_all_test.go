// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ik5/audreact/audio"
	"github.com/ik5/audreact/internal/audiotest"
)

func TestReadAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		frames   int
		bufSize  int
	}{
		{"mono default buffer", 1, 10000, 0},
		{"stereo odd buffer", 2, 333, 7},
		{"tiny buffer", 3, 12, 1},
		{"empty", 1, 0, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewMockSource(8000, tt.channels, tt.frames, func(sample, channel int) float32 {
				return float32(sample*tt.channels + channel)
			})

			got, err := audio.ReadAll(context.Background(), src, tt.bufSize)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(got) != tt.frames*tt.channels {
				t.Fatalf("ReadAll() len = %d, want %d", len(got), tt.frames*tt.channels)
			}
			for i, v := range got {
				if v != float32(i) {
					t.Fatalf("got[%d] = %v, want %d", i, v, i)
				}
			}
		})
	}
}

func TestReadAll_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := audio.ReadAll(ctx, audiotest.NewSilentSource(8000, 1, 100), 16)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadAll() error = %v, want context.Canceled", err)
	}
}

func TestReadAll_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := audio.ReadAll(context.Background(), &failingSource{audiotest.NewSilentSource(8000, 1, 1), boom}, 16)
	if !errors.Is(err, boom) {
		t.Errorf("ReadAll() error = %v, want boom", err)
	}
}

func TestReadAll_Stalled(t *testing.T) {
	t.Parallel()

	_, err := audio.ReadAll(context.Background(), stalledSource{audiotest.NewSilentSource(8000, 1, 1)}, 16)
	if !errors.Is(err, audio.ErrNoProgress) {
		t.Errorf("ReadAll() error = %v, want ErrNoProgress", err)
	}
}
