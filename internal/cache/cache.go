package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/geo"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

const (
	scheduleFile = "schedule_%d_%s.json" // year, location key
	geoCacheFile = "geolocation.json"
	geoTTL       = 24 * time.Hour
)

// Cache provides file-based storage for yearly schedules and geolocation data.
type Cache struct {
	dir string
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/ramadan-dashboard/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns ~/.cache/ramadan-dashboard.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "ramadan-dashboard"), nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// SchedulePath returns the file holding the schedule for year and key.
func (c *Cache) SchedulePath(year int, key string) string {
	return filepath.Join(c.dir, fmt.Sprintf(scheduleFile, year, key))
}

// LoadSchedule reads the stored schedule for year and key.
// It returns ErrNotFound when no file exists and ErrMalformed when the file
// cannot be read or decoded.
func (c *Cache) LoadSchedule(year int, key string) (prayer.YearSchedule, error) {
	path := c.SchedulePath(year, key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var ys prayer.YearSchedule
	if err := json.Unmarshal(data, &ys); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	for day := range ys {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return nil, fmt.Errorf("%w: %s: bad date key %q", ErrMalformed, path, day)
		}
	}
	return ys, nil
}

// SaveSchedule writes the schedule as indented JSON. The data goes to a
// temp file first and is renamed over the target, so readers never see a
// partial file.
func (c *Cache) SaveSchedule(year int, key string, ys prayer.YearSchedule) error {
	data, err := json.MarshalIndent(ys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	data = append(data, '\n')

	path := c.SchedulePath(year, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schedule file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace schedule file: %w", err)
	}
	return nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	entry := c.readGeo()
	if entry == nil || time.Since(entry.CachedAt) > geoTTL {
		return nil
	}
	return &entry.Location
}

// LoadGeoStale returns the cached geolocation regardless of age. It is the
// offline fallback when detection fails after the TTL has lapsed.
func (c *Cache) LoadGeoStale() *geo.Location {
	entry := c.readGeo()
	if entry == nil {
		return nil
	}
	return &entry.Location
}

func (c *Cache) readGeo() *GeoCacheEntry {
	data, err := os.ReadFile(filepath.Join(c.dir, geoCacheFile))
	if err != nil {
		return nil
	}
	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return &entry
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)
	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}
