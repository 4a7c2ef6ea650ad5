// Package syncutil provides the per-key locking used to serialize
// read-modify-write cycles on session state.
package syncutil

import (
	"hash/fnv"
	"sync"
)

// shardCount is the fixed number of lock shards.
const shardCount = 256

// ShardedMutex provides a fixed-size pool of mutexes keyed by string.
// Memory stays bounded no matter how many session ids are seen, at the
// cost of occasional false sharing between keys that hash to the same
// shard.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

// Lock acquires the mutex for the given key and returns an unlock function.
func (s *ShardedMutex) Lock(key string) func() {
	mu := s.shard(key)
	mu.Lock()
	return mu.Unlock
}

func (s *ShardedMutex) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%shardCount]
}
