// diskcache.go — best-effort font binary cache on a scratch directory.
//
// The in-memory cache is the source of truth; disk only saves repeat
// network fetches across invocations on the same host. The execution
// environment may be read-only or ephemeral, so every failure here
// degrades silently to memory-only caching.
package fontres

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type diskCache struct {
	dir    string
	logger *slog.Logger
}

// newDiskCache probes dir for writability and returns nil when the
// directory cannot be used. A nil *diskCache is a valid no-op receiver.
func newDiskCache(dir string, logger *slog.Logger) *diskCache {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Debug("font disk cache unavailable", "dir", dir, "err", err)
		return nil
	}

	probe := filepath.Join(dir, ".credrender-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		logger.Debug("font disk cache not writable", "dir", dir, "err", err)
		return nil
	}
	os.Remove(probe)

	return &diskCache{dir: dir, logger: logger}
}

func (d *diskCache) read(key string) []byte {
	if d == nil {
		return nil
	}
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil
	}
	d.logger.Debug("font disk cache hit", "key", key, "bytes", len(data))
	return data
}

// write persists an entry via temp-file+rename so a crash mid-write never
// leaves a half-written font at the cache path.
func (d *diskCache) write(key string, data []byte) {
	if d == nil {
		return
	}

	tmp, err := os.CreateTemp(d.dir, "font-*")
	if err != nil {
		d.logger.Debug("font disk cache write failed", "key", key, "err", err)
		return
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		d.logger.Debug("font disk cache write failed", "key", key, "err", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		d.logger.Debug("font disk cache write failed", "key", key, "err", err)
		return
	}

	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		os.Remove(tmp.Name())
		d.logger.Debug("font disk cache write failed", "key", key, "err", err)
	}
}

func (d *diskCache) remove(key string) {
	if d == nil {
		return
	}
	os.Remove(d.path(key))
}

func (d *diskCache) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, key)
	return filepath.Join(d.dir, safe+".ttf")
}
