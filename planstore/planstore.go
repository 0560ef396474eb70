// Package planstore caches compiled, bound operations keyed by document
// text and operation name. Compiled operation plans are cacheable and
// shareable across requests, since per-request state (variables,
// principal, host context) never enters the cache — an Entry holds only
// the parsed Query and the root SchemaType it was bound against, both of
// which are pure and reusable. Invalidation is by schema version rather
// than a bounded eviction policy: once a schema is rebuilt, entries bound
// to its old version simply become unreachable via Get.
//
// Grounded on the teacher pack's LRU operation cache
// (graphql/handler/operation_cache.go in botobag-artemis): this store
// keeps that file's sync-guarded map-of-entries shape but drops the
// intrusive linked-list/bitset LRU machinery in favor of the simpler
// version-keyed invalidation described above.
package planstore

import (
	"sync"

	"go.appointy.com/projgql/graphql"
)

// Entry is a cached, already-parsed-and-validated operation.
type Entry struct {
	Query *graphql.Query
	Root  graphql.Type
}

type key struct {
	document      string
	operationName string
	schemaVersion uint64
}

// MemoryPlanStore is a thread-safe, in-process plan cache. The zero value
// is not usable; construct one with NewMemoryPlanStore.
type MemoryPlanStore struct {
	mu      sync.RWMutex
	entries map[key]*Entry
}

// NewMemoryPlanStore returns an empty plan cache.
func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{entries: make(map[key]*Entry)}
}

// Get looks up a previously cached entry for (document, operationName)
// bound against schema's current Version. A cache hit keyed to an older
// Version (the schema was rebuilt since) is treated as a miss.
func (s *MemoryPlanStore) Get(document, operationName string, schema *graphql.Schema) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key{document, operationName, schema.Version}]
	return e, ok
}

// Put stores entry for (document, operationName) under schema's current
// Version, overwriting whatever was cached there before.
func (s *MemoryPlanStore) Put(document, operationName string, schema *graphql.Schema, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key{document, operationName, schema.Version}] = entry
}

// Len reports how many entries are currently cached, across every schema
// version that has ever been stored (stale-version entries are never
// swept — they are simply unreachable via Get, and EvictVersion can drop them
// explicitly once a caller knows a schema has been replaced).
func (s *MemoryPlanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictVersion drops every cached entry bound to the given schema version,
// for callers that want to reclaim memory immediately after a schema
// rebuild rather than let stale entries sit unreachable.
func (s *MemoryPlanStore) EvictVersion(schemaVersion uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if k.schemaVersion == schemaVersion {
			delete(s.entries, k)
		}
	}
}
