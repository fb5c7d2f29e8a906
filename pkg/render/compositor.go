// compositor.go — the public entry point orchestrating a render.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sarthakpriyadarshi/credrender/internal/logging"
	"github.com/sarthakpriyadarshi/credrender/pkg/fontres"
)

const outputMIME = "image/png"

// Compositor renders credential artifacts. Construct one per process and
// share it: the only cross-request state is the font cache inside the
// injected Resolver, which is safe for concurrent use.
type Compositor struct {
	resolver *fontres.Resolver
	logger   *slog.Logger
}

// CompositorOptions configures a Compositor. A nil Resolver gets a default
// one (network acquisition, memory-only cache).
type CompositorOptions struct {
	Resolver *fontres.Resolver
	Logger   *slog.Logger
}

// NewCompositor creates a compositor.
func NewCompositor(opts CompositorOptions) (*Compositor, error) {
	logger := logging.OrNop(opts.Logger)

	resolver := opts.Resolver
	if resolver == nil {
		var err error
		resolver, err = fontres.NewResolver(fontres.ResolverOptions{Logger: logger})
		if err != nil {
			return nil, err
		}
	}

	return &Compositor{resolver: resolver, logger: logger}, nil
}

// RenderCertificate renders a certificate artifact.
func (c *Compositor) RenderCertificate(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	return c.render(ctx, req)
}

// RenderBadge renders a badge artifact. Certificates and badges differ
// only in what callers name them; the algorithm is one and the same.
func (c *Compositor) RenderBadge(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	return c.render(ctx, req)
}

// render is the single implementation behind both public names:
// validate → decode → resolve fonts → draw background and fields → encode.
//
// Input problems (ErrInvalidInput, ErrUnsupportedFormat, ErrCorruptImage)
// surface as themselves. Everything else, panics included, is normalized
// into one *RenderError carrying whatever field/family context was live
// when the failure happened.
func (c *Compositor) render(ctx context.Context, req RenderRequest) (result *RenderResult, err error) {
	var stage, field, family string

	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{
				Stage:      stage,
				Field:      field,
				FontFamily: family,
				Err:        fmt.Errorf("panic: %v", r),
			}
			c.logger.Error("render panicked", "stage", stage, "field", field, "err", err)
		}
	}()

	if err := ValidatePlaceholders(req.Placeholders); err != nil {
		return nil, err
	}
	for _, w := range CheckFieldValues(req.Placeholders, req.FieldValues) {
		c.logger.Debug("field value check", "warning", w)
	}

	stage = "decode"
	decoded, err := DecodeDataURI(req.SourceImage)
	if err != nil {
		return nil, err
	}

	stage = "fonts"
	c.resolveFamilies(ctx, req.Placeholders)

	stage = "draw"
	s := newSurface(decoded, c.resolver, c.logger)
	for _, p := range req.Placeholders {
		if !p.HasCoordinates() {
			continue
		}
		value, ok := req.valueFor(p.FieldName)
		if !ok {
			continue
		}
		eff := p.effective()
		field, family = eff.FieldName, eff.FontFamily
		s.drawField(eff, value)
	}
	field, family = "", ""

	stage = "encode"
	raw, err := s.encodePNG()
	if err != nil {
		return nil, &RenderError{Stage: stage, Err: err}
	}

	c.logger.Debug("render complete",
		"width", decoded.Width, "height", decoded.Height, "bytes", len(raw))

	return &RenderResult{
		EncodedImage: "data:" + outputMIME + ";base64," + base64.StdEncoding.EncodeToString(raw),
		Bytes:        raw,
		MIMEType:     outputMIME,
		Width:        decoded.Width,
		Height:       decoded.Height,
	}, nil
}

// resolveFamilies warms the font cache for every distinct family referenced
// by a drawable placeholder. Distinct families resolve concurrently; the
// resolver's single-flight guard keeps duplicate families to one fetch.
// Resolution cannot fail a render - unavailable families fall back later.
func (c *Compositor) resolveFamilies(ctx context.Context, placeholders []Placeholder) {
	families := make(map[string]struct{})
	for _, p := range placeholders {
		if !p.HasCoordinates() {
			continue
		}
		families[p.effective().FontFamily] = struct{}{}
	}

	var wg sync.WaitGroup
	for f := range families {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			res := c.resolver.Resolve(ctx, name, fontres.DefaultWeight)
			if !res.Available {
				c.logger.Warn("family unavailable, will draw with fallback",
					"family", name, "fallback", res.EffectiveFamily)
			}
		}(f)
	}
	wg.Wait()
}
