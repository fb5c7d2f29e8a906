// resolver.go — family→font resolution with substitution and caching.
package fontres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/singleflight"

	"github.com/sarthakpriyadarshi/credrender/internal/logging"
)

// DefaultWeight is the regular weight requested when a caller does not care.
const DefaultWeight = 400

// FallbackFamily names the embedded face used when acquisition fails.
const FallbackFamily = "Go Regular"

// substitutions maps common system font names (lowercased) to
// visually-similar webfont families the remote API can actually serve.
// Arimo/Tinos/Cousine are metric-compatible with their originals.
var substitutions = map[string]string{
	"arial":           "Arimo",
	"helvetica":       "Arimo",
	"times new roman": "Tinos",
	"courier new":     "Cousine",
	"verdana":         "Open Sans",
	"georgia":         "Gelasio",
	"garamond":        "EB Garamond",
	"comic sans ms":   "Comic Neue",
	"trebuchet ms":    "Fira Sans",
	"impact":          "Anton",
	"tahoma":          "Open Sans",
	"century gothic":  "Questrial",
	"palatino":        "PT Serif",
	"lucida console":  "Inconsolata",
}

// Resolved is the outcome of a Resolve call. EffectiveFamily is what the
// surface should ask for when building a face; when Available is false it
// names the fallback family.
type Resolved struct {
	Available       bool
	EffectiveFamily string
}

// Resolver guarantees the rendering surface can draw text for any requested
// family, either with an acquired webfont or with the embedded fallback.
//
// One Resolver is constructed per process and shared by reference across
// concurrent renders. Cached fonts are never mutated after insertion.
type Resolver struct {
	client *Client
	disk   *diskCache
	logger *slog.Logger

	mu    sync.RWMutex
	fonts map[string]*truetype.Font

	// group collapses concurrent acquisition of the same key into one
	// network fetch; late callers wait for the first result.
	group singleflight.Group

	fallback *truetype.Font
}

// ResolverOptions configures a Resolver. Zero values select defaults;
// CacheDir is optional and advisory (absence degrades to memory-only).
type ResolverOptions struct {
	Client   *Client
	CacheDir string
	Logger   *slog.Logger
}

// NewResolver creates a resolver with the embedded fallback face parsed and
// ready. The only construction error is a corrupt embedded font, which
// would be a build problem, not a runtime one.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	logger := logging.OrNop(opts.Logger)

	fallback, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded fallback font: %w", err)
	}

	client := opts.Client
	if client == nil {
		client = NewClient(ClientOptions{Logger: logger})
	}

	return &Resolver{
		client:   client,
		disk:     newDiskCache(opts.CacheDir, logger),
		logger:   logger,
		fonts:    make(map[string]*truetype.Font),
		fallback: fallback,
	}, nil
}

// Resolve maps a requested family name to a loadable font, acquiring and
// caching it on first use. It never returns an error: an unacquirable
// family resolves as unavailable and text falls back to FallbackFamily.
//
// Safe for concurrent use; concurrent calls for the same family share one
// underlying fetch.
func (r *Resolver) Resolve(ctx context.Context, family string, weight int) Resolved {
	if weight <= 0 {
		weight = DefaultWeight
	}
	eff := EffectiveFamily(family)
	key := cacheKey(eff, weight)

	r.mu.RLock()
	_, hit := r.fonts[key]
	r.mu.RUnlock()
	if hit {
		return Resolved{Available: true, EffectiveFamily: eff}
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		return r.acquire(ctx, eff, weight, key), nil
	})

	if v.(*truetype.Font) == nil {
		return Resolved{Available: false, EffectiveFamily: FallbackFamily}
	}
	return Resolved{Available: true, EffectiveFamily: eff}
}

// acquire loads a font into the cache from disk or network. Returns nil
// when the family cannot be obtained. The disk cache is advisory: a stale
// or corrupt entry is dropped and the network is still tried.
func (r *Resolver) acquire(ctx context.Context, family string, weight int, key string) *truetype.Font {
	// Another flight may have finished between the fast path and Do.
	r.mu.RLock()
	f := r.fonts[key]
	r.mu.RUnlock()
	if f != nil {
		return f
	}

	if data := r.disk.read(key); data != nil {
		f, err := truetype.Parse(data)
		if err == nil {
			return r.store(key, f, family, weight)
		}
		r.logger.Warn("cached font unparseable, discarding",
			"family", family, "weight", weight, "err", err)
		r.disk.remove(key)
	}

	data := r.client.FetchFontBinary(ctx, family, weight)
	if data == nil {
		r.logger.Warn("font unavailable, using fallback", "family", family, "weight", weight)
		return nil
	}

	f, err := truetype.Parse(data)
	if err != nil {
		r.logger.Warn("fetched font unparseable", "family", family, "weight", weight, "err", err)
		return nil
	}

	r.disk.write(key, data)
	return r.store(key, f, family, weight)
}

func (r *Resolver) store(key string, f *truetype.Font, family string, weight int) *truetype.Font {
	r.mu.Lock()
	r.fonts[key] = f
	r.mu.Unlock()

	r.logger.Debug("font resolved", "family", family, "weight", weight)
	return f
}

// Face returns a drawing face for family at size, or the fallback face if
// the family was never resolved. Resolve must have been attempted first for
// non-fallback families; Face itself does no I/O.
func (r *Resolver) Face(family string, weight int, size float64) font.Face {
	if weight <= 0 {
		weight = DefaultWeight
	}
	key := cacheKey(EffectiveFamily(family), weight)

	r.mu.RLock()
	f := r.fonts[key]
	r.mu.RUnlock()

	if f == nil {
		f = r.fallback
	}
	return newFace(f, size)
}

// FallbackFace returns the embedded face at size.
func (r *Resolver) FallbackFace(size float64) font.Face {
	return newFace(r.fallback, size)
}

// Reset drops the in-memory font cache. Meant for tests that need a cold
// resolver without constructing a new one.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.fonts = make(map[string]*truetype.Font)
	r.mu.Unlock()
}

// EffectiveFamily applies the system-font substitution table. Unknown
// names are treated as webfont names directly.
func EffectiveFamily(family string) string {
	if sub, ok := substitutions[strings.ToLower(strings.TrimSpace(family))]; ok {
		return sub
	}
	return strings.TrimSpace(family)
}

func cacheKey(family string, weight int) string {
	return strings.ToLower(family) + "|" + strconv.Itoa(weight)
}

func newFace(f *truetype.Font, size float64) font.Face {
	if size <= 0 {
		size = 16
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
