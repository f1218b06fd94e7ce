package detect

import (
	"hash/fnv"
	"strconv"
)

// ContentHash renders a deterministic 32-bit FNV-1a hash of content in
// base-36, the same hash family the teacher already pulls in transitively
// via pkg/logger's namespace coloring (hash/fnv), so no new hashing
// dependency is introduced.
//
// Per spec.md §9's open question this hash is treated as coincidental dedup
// only: the stored dedup key is (repository_id, content_hash, file_path,
// line_start), so a 32-bit collision only merges two patterns that also
// share file and start line — vanishingly unlikely to be a false collision
// in practice. It is not cryptographic and callers must not rely on it for
// anything beyond that dedup key.
func ContentHash(content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}
