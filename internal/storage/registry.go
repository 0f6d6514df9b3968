package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"tally/internal/shard"

	"github.com/hashicorp/go-multierror"
)

// Registry owns the open shard stores: at most one handle exists per
// shard key, created lazily on first access and released only through
// Close or CloseAll. Construct one per process (or per test) and pass it
// by reference; there is no package-level instance.
type Registry struct {
	dataDir string

	mu      sync.Mutex
	handles map[shard.Key]*Store
}

// NewRegistry creates an empty registry over a data directory. The
// directory is created lazily when the first shard opens.
func NewRegistry(dataDir string) *Registry {
	return &Registry{
		dataDir: dataDir,
		handles: make(map[shard.Key]*Store),
	}
}

// Get returns the cached store for (tenant, year), opening and
// bootstrapping it first when absent. A failed open leaves no entry in
// the cache.
func (r *Registry) Get(ctx context.Context, tenant string, year int) (*Store, error) {
	key := shard.Resolve(tenant, year)

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.handles[key]; ok {
		return store, nil
	}

	store, err := openStore(r.dataDir, key)
	if err != nil {
		return nil, fmt.Errorf("open shard %s: %w", key, err)
	}
	r.handles[key] = store
	return store, nil
}

// Close closes and evicts the handle for one shard. Closing a shard that
// was never opened is a no-op.
func (r *Registry) Close(tenant string, year int) error {
	key := shard.Resolve(tenant, year)

	r.mu.Lock()
	store, ok := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := store.close(); err != nil {
		return fmt.Errorf("close shard %s: %w", key, err)
	}
	slog.Info("Shard store closed", "shard", key.String())
	return nil
}

// CloseAll closes and evicts every cached handle. Intended for process
// shutdown; in-flight operations are not drained first.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[shard.Key]*Store)
	r.mu.Unlock()

	var errs *multierror.Error
	for key, store := range handles {
		if err := store.close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close shard %s: %w", key, err))
		}
	}
	slog.Info("All shard stores closed", "count", len(handles))
	return errs.ErrorOrNil()
}

// UserYears lists the years for which a tenant has a shard store on
// disk, newest first. Backup copies are not counted.
func (r *Registry) UserYears(tenant string) ([]int, error) {
	entries, err := os.ReadDir(r.dataDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var years []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := shard.ParseFilename(entry.Name())
		if !ok || key.Tenant != tenant {
			continue
		}
		years = append(years, key.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
