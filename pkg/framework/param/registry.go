// Package param maintains the string-keyed registry that exposes one scene
// of the engine's parameter table to the host.
package param

import (
	"sync"

	"go.uber.org/zap"

	"github.com/justyntemme/synthbridge/pkg/engine"
)

const (
	// MaxEntries caps the registry size; parameters beyond it are dropped.
	MaxEntries = 300
	// MaxKeyLen and MaxNameLen bound key and display name lengths; longer
	// values are truncated, not rejected.
	MaxKeyLen  = 47
	MaxNameLen = 47

	scenePrefix = "a_"
)

// Entry is one exposed parameter.
type Entry struct {
	Key         string
	DisplayName string
	// EngineID is only valid until the next patch load; the registry is
	// rebuilt wholesale whenever that happens.
	EngineID engine.ParamID
	Kind     engine.ParamKind
}

// Source is the subset of the engine contract the registry reads.
type Source interface {
	ParamCount() int
	ParamInfo(index int) (engine.ParamInfo, bool)
	LookupID(index int) (engine.ParamID, bool)
}

// Registry maps host-visible string keys to engine parameter handles.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		order:   make([]string, 0, MaxEntries),
	}
}

// Rebuild discards the current mapping and re-derives it from the engine's
// parameter table: scene A rows only, keys from the storage name with the
// scene prefix stripped, both key and display name truncated to their
// bounds. Rows the engine refuses to issue a handle for are skipped, as are
// duplicate keys; registration stops at MaxEntries.
//
// Engine handles are patch-topology-dependent, so this must run after every
// patch load.
func (r *Registry) Rebuild(src Source, log *zap.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*Entry)
	r.order = r.order[:0]

	count := src.ParamCount()
	for i := 0; i < count && len(r.order) < MaxEntries; i++ {
		info, ok := src.ParamInfo(i)
		if !ok || info.Scene != engine.SceneA {
			continue
		}

		id, ok := src.LookupID(i)
		if !ok {
			log.Debug("skipping parameter without handle",
				zap.Int("index", i), zap.String("storage_name", info.StorageName))
			continue
		}

		key := info.StorageName
		if len(key) >= len(scenePrefix) && key[:len(scenePrefix)] == scenePrefix {
			key = key[len(scenePrefix):]
		}
		key, keyTruncated := Truncate(key, MaxKeyLen)
		if keyTruncated {
			log.Warn("parameter key truncated", zap.String("key", key))
		}
		if key == "" {
			continue
		}
		if _, exists := r.entries[key]; exists {
			log.Warn("duplicate parameter key skipped", zap.String("key", key))
			continue
		}

		name, _ := Truncate(info.FullName, MaxNameLen)
		entry := &Entry{
			Key:         key,
			DisplayName: name,
			EngineID:    id,
			Kind:        info.Kind,
		}
		r.entries[key] = entry
		r.order = append(r.order, key)
	}

	log.Info("parameter registry rebuilt", zap.Int("count", len(r.order)))
}

// Find returns the entry for an exact key match, or nil.
func (r *Registry) Find(key string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries[key]
}

// Count returns the number of registered entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns the entries in registration order.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entry, len(r.order))
	for i, key := range r.order {
		result[i] = r.entries[key]
	}
	return result
}

// Truncate bounds s to max bytes and reports whether anything was cut.
func Truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	return s[:max], true
}
