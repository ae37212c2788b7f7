// SPDX-License-Identifier: EPL-2.0

package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/ik5/audreact/audio"
	"github.com/ik5/audreact/formats/aiff"
	"github.com/ik5/audreact/formats/flac"
	"github.com/ik5/audreact/formats/mp3"
	"github.com/ik5/audreact/formats/vorbis"
	"github.com/ik5/audreact/formats/wav"
)

const readBufferSize = 8192

// Context is the reference Pipeline. Every track it opens is decoded,
// resampled to the context rate and folded to mono.
type Context struct {
	cfg      Config
	registry *audio.Registry
	client   *http.Client
	now      func() time.Time
}

// DefaultRegistry knows wav, mp3, ogg, aiff and flac by file extension.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	r.Register(aiff.Decoder{}, "aiff", "aif")
	r.Register(flac.Decoder{}, "flac")
	return r
}

func NewContext(cfg Config) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Context{
		cfg:      cfg,
		registry: DefaultRegistry(),
		client:   http.DefaultClient,
		now:      time.Now,
	}, nil
}

func (c *Context) Config() Config             { return c.cfg }
func (c *Context) Registry() *audio.Registry { return c.registry }
func (c *Context) FrequencyBinCount() int    { return c.cfg.FrequencyBinCount() }

// Open resolves the decoder up front, so an unknown extension fails here,
// and decodes in the background.
func (c *Context) Open(ctx context.Context, locator string) (Element, error) {
	dec, err := c.registry.ForPath(locatorPath(locator))
	if err != nil {
		return nil, err
	}

	t := newTrack(locator, c.cfg.SampleRate, c.now)
	go t.load(ctx, func(ctx context.Context) ([]float32, error) {
		return c.decode(ctx, locator, dec)
	})

	return t, nil
}

func (c *Context) Analyse(el Element) (Spectrum, error) {
	s, ok := el.(Sampler)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotAnalysable, el)
	}
	return NewAnalyser(s, c.cfg), nil
}

func (c *Context) decode(ctx context.Context, locator string, dec audio.Decoder) ([]float32, error) {
	rc, err := c.fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := dec.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", locator, err)
	}

	if src.SampleRate() != c.cfg.SampleRate {
		src = audio.NewResampler(src, c.cfg.SampleRate)
	}
	mono := audio.NewMonoMixer(src)
	defer mono.Close()

	samples, err := audio.ReadAll(ctx, mono, readBufferSize)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", locator, err)
	}

	return samples, nil
}

func (c *Context) fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if !isRemote(locator) {
		f, err := os.Open(locator)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", locator, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", locator, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", locator, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %s", locator, resp.Status)
	}

	return resp.Body, nil
}

func isRemote(locator string) bool {
	u, err := url.Parse(locator)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// locatorPath strips the query of a URL so the extension can be read.
func locatorPath(locator string) string {
	if !isRemote(locator) {
		return locator
	}
	u, _ := url.Parse(locator)
	return path.Base(u.Path)
}
