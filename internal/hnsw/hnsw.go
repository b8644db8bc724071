// Package hnsw implements an approximate nearest-neighbor index over memory
// embeddings, used by the retrieval engine once the brute-force threshold
// is exceeded. The insert/build/search lifecycle and auto-rebuild heuristic
// are grounded in original_source/memz-core/src/hnsw.rs (which wraps the
// Rust instant-distance crate); the multi-layer graph construction and
// search algorithm are adapted from the real Go HNSW implementation at
// _examples/straga-Mimir_lite/nornicdb/pkg/search/hnsw_index.go.
package hnsw

import (
	"container/heap"
	"math"
	"math/rand"
	"sort"

	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
)

// Config tunes the HNSW graph. Defaults match the Rust source's
// ef_construction=100/ef_search=50, folded into the Mimir-style M/level
// parameters used by the real multi-layer builder.
type Config struct {
	M               int     // max neighbors per node per layer
	EfConstruction  int     // candidate list size during build
	EfSearch        int     // candidate list size during search
	LevelMultiplier float64 // level-assignment exponential decay factor
	Seed            int64   // deterministic graph construction seed
	AutoRebuildPct  float32 // rebuild when dirty/total exceeds this fraction
}

// DefaultConfig matches the ef_construction/ef_search defaults in
// original_source/memz-core/src/hnsw.rs::HnswIndex::new, seeded for
// reproducible graph construction.
func DefaultConfig() Config {
	return Config{
		M:               16,
		EfConstruction:  100,
		EfSearch:        50,
		LevelMultiplier: 1.0 / math.Log(16),
		Seed:            42,
		AutoRebuildPct:  0.2,
	}
}

// Result is a single search hit.
type Result struct {
	MemoryID   ident.MemoryID
	Distance   float32
	Similarity float32
}

type node struct {
	id        ident.MemoryID
	vector    []float32
	level     int
	neighbors [][]ident.MemoryID
}

// Index is the incremental-insert, explicit-build, lazy-rebuild
// approximate nearest-neighbor index described by the Rust source:
// Insert queues a point, Build constructs a deterministic multi-layer
// graph over all pending points in one batch pass, and Search uses the
// graph when built or falls back to a brute-force linear scan.
type Index struct {
	cfg Config
	rng *rand.Rand

	pendingIDs     []ident.MemoryID
	pendingVectors [][]float32

	nodes      map[ident.MemoryID]*node
	entryPoint ident.MemoryID
	hasEntry   bool
	maxLevel   int
	built      bool
	dirtyCount int
}

// New creates an empty index with the given configuration.
func New(cfg Config) *Index {
	return &Index{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		nodes: make(map[ident.MemoryID]*node),
	}
}

// Insert queues an embedding for indexing. The point is not searchable via
// the graph until the next Build call.
func (idx *Index) Insert(id ident.MemoryID, vec embedding.Vector) {
	idx.pendingIDs = append(idx.pendingIDs, id)
	idx.pendingVectors = append(idx.pendingVectors, normalize(vec))
	idx.dirtyCount++
}

// Len returns the number of points currently held (inserted and not yet
// removed or cleared); Build indexes them in place without draining
// pendingIDs.
func (idx *Index) Len() int { return len(idx.pendingIDs) }

// IsEmpty reports whether the index holds no points.
func (idx *Index) IsEmpty() bool { return len(idx.pendingIDs) == 0 }

// NeedsRebuild reports whether dirty inserts since the last Build exceed
// the configured auto-rebuild threshold, or the graph has never been built
// while points are pending.
func (idx *Index) NeedsRebuild() bool {
	total := len(idx.pendingIDs)
	if !idx.built && total > 0 {
		return true
	}
	if total == 0 {
		return false
	}
	return float32(idx.dirtyCount)/float32(total) > idx.cfg.AutoRebuildPct
}

// Build (re)constructs the graph from all pending points in a single
// deterministic batch pass, seeded for reproducibility.
func (idx *Index) Build() {
	if len(idx.pendingIDs) == 0 {
		return
	}
	idx.rng = rand.New(rand.NewSource(idx.cfg.Seed))
	idx.nodes = make(map[ident.MemoryID]*node, len(idx.pendingIDs))
	idx.hasEntry = false
	idx.maxLevel = 0

	for i, id := range idx.pendingIDs {
		idx.addToGraph(id, idx.pendingVectors[i])
	}
	idx.built = true
	idx.dirtyCount = 0
}

// Search returns the k nearest neighbors to query. If the graph has been
// built it is used; otherwise a brute-force linear scan over all pending
// points is performed. Results are sorted by ascending distance.
func (idx *Index) Search(query embedding.Vector, k int) []Result {
	if len(idx.pendingIDs) == 0 {
		return nil
	}
	q := normalize(query)
	if idx.built && idx.hasEntry {
		return idx.searchGraph(q, k)
	}
	return idx.bruteForce(q, k)
}

// Remove drops id from the pending set (swap-remove). The built graph, if
// any, is not patched in place — it still reflects id until the next
// Build, matching the Rust source's immutable-graph note.
func (idx *Index) Remove(id ident.MemoryID) {
	i := 0
	for i < len(idx.pendingIDs) {
		if idx.pendingIDs[i] == id {
			last := len(idx.pendingIDs) - 1
			idx.pendingIDs[i] = idx.pendingIDs[last]
			idx.pendingVectors[i] = idx.pendingVectors[last]
			idx.pendingIDs = idx.pendingIDs[:last]
			idx.pendingVectors = idx.pendingVectors[:last]
			idx.dirtyCount++
		} else {
			i++
		}
	}
}

// Clear empties the index entirely.
func (idx *Index) Clear() {
	idx.pendingIDs = nil
	idx.pendingVectors = nil
	idx.nodes = make(map[ident.MemoryID]*node)
	idx.hasEntry = false
	idx.maxLevel = 0
	idx.built = false
	idx.dirtyCount = 0
}

// Stats reports index state for CLI/debug introspection.
type Stats struct {
	TotalPoints    int
	DirtyCount     int
	IsBuilt        bool
	EfConstruction int
	EfSearch       int
}

func (idx *Index) Stats() Stats {
	return Stats{
		TotalPoints:    len(idx.pendingIDs),
		DirtyCount:     idx.dirtyCount,
		IsBuilt:        idx.built,
		EfConstruction: idx.cfg.EfConstruction,
		EfSearch:       idx.cfg.EfSearch,
	}
}

// --- graph construction & search, adapted from straga-Mimir_lite's hnsw_index.go ---

func (idx *Index) randomLevel() int {
	return int(-math.Log(idx.rng.Float64()) * idx.cfg.LevelMultiplier)
}

func (idx *Index) addToGraph(id ident.MemoryID, vec []float32) {
	level := idx.randomLevel()
	n := &node{id: id, vector: vec, level: level, neighbors: make([][]ident.MemoryID, level+1)}
	idx.nodes[id] = n

	if !idx.hasEntry {
		idx.entryPoint = id
		idx.hasEntry = true
		idx.maxLevel = level
		return
	}

	epLevel := idx.nodes[idx.entryPoint].level
	cur := idx.entryPoint
	for l := epLevel; l > level; l-- {
		cur = idx.searchLayerSingle(vec, cur, l)
	}

	for l := min(level, epLevel); l >= 0; l-- {
		candidates := idx.searchLayer(vec, cur, idx.cfg.EfConstruction, l)
		neighbors := selectNeighbors(candidates, idx.cfg.M)
		n.neighbors[l] = neighbors
		for _, nb := range neighbors {
			nbNode := idx.nodes[nb]
			if l < len(nbNode.neighbors) {
				nbNode.neighbors[l] = append(nbNode.neighbors[l], id)
				if len(nbNode.neighbors[l]) > idx.cfg.M {
					nbNode.neighbors[l] = selectNeighbors(idx.neighborDists(nbNode.vector, nbNode.neighbors[l]), idx.cfg.M)
				}
			}
		}
		if len(candidates) > 0 {
			cur = candidates[0].id
		}
	}

	if level > idx.maxLevel {
		idx.entryPoint = id
		idx.maxLevel = level
	}
}

func (idx *Index) neighborDists(vec []float32, ids []ident.MemoryID) []distItem {
	out := make([]distItem, len(ids))
	for i, id := range ids {
		out[i] = distItem{id: id, dist: cosineDistance(vec, idx.nodes[id].vector)}
	}
	return out
}

func (idx *Index) searchLayerSingle(query []float32, entry ident.MemoryID, level int) ident.MemoryID {
	best := entry
	bestDist := cosineDistance(query, idx.nodes[entry].vector)
	for {
		improved := false
		cur := idx.nodes[best]
		if level < len(cur.neighbors) {
			for _, nb := range cur.neighbors[level] {
				d := cosineDistance(query, idx.nodes[nb].vector)
				if d < bestDist {
					bestDist = d
					best = nb
					improved = true
				}
			}
		}
		if !improved {
			return best
		}
	}
}

type distItem struct {
	id   ident.MemoryID
	dist float32
}

func (idx *Index) searchLayer(query []float32, entry ident.MemoryID, ef, level int) []distItem {
	visited := map[ident.MemoryID]bool{entry: true}
	entryDist := cosineDistance(query, idx.nodes[entry].vector)

	candidates := &minHeap{{entry, entryDist}}
	heap.Init(candidates)
	results := &maxHeap{{entry, entryDist}}
	heap.Init(results)

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(distItem)
		if results.Len() > 0 && c.dist > (*results)[0].dist && results.Len() >= ef {
			break
		}
		cur := idx.nodes[c.id]
		if level >= len(cur.neighbors) {
			continue
		}
		for _, nb := range cur.neighbors[level] {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			d := cosineDistance(query, idx.nodes[nb].vector)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, distItem{nb, d})
				heap.Push(results, distItem{nb, d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]distItem, results.Len())
	copy(out, *results)
	sort.Slice(out, func(i, j int) bool { return out[i].dist < out[j].dist })
	return out
}

func selectNeighbors(candidates []distItem, m int) []ident.MemoryID {
	sorted := make([]distItem, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].dist < sorted[j].dist })
	if len(sorted) > m {
		sorted = sorted[:m]
	}
	out := make([]ident.MemoryID, len(sorted))
	for i, c := range sorted {
		out[i] = c.id
	}
	return out
}

func (idx *Index) searchGraph(query []float32, k int) []Result {
	cur := idx.entryPoint
	for l := idx.maxLevel; l > 0; l-- {
		cur = idx.searchLayerSingle(query, cur, l)
	}
	candidates := idx.searchLayer(query, cur, maxInt(idx.cfg.EfSearch, k), 0)
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]Result, len(candidates))
	for i, c := range candidates {
		out[i] = Result{MemoryID: c.id, Distance: c.dist, Similarity: 1 - c.dist}
	}
	return out
}

func (idx *Index) bruteForce(query []float32, k int) []Result {
	items := make([]distItem, len(idx.pendingIDs))
	for i, id := range idx.pendingIDs {
		items[i] = distItem{id: id, dist: cosineDistance(query, idx.pendingVectors[i])}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].dist < items[j].dist })
	if len(items) > k {
		items = items[:k]
	}
	out := make([]Result, len(items))
	for i, it := range items {
		out[i] = Result{MemoryID: it.id, Distance: it.dist, Similarity: 1 - it.dist}
	}
	return out
}

func normalize(v embedding.Vector) []float32 {
	var sumSq float32
	for _, x := range v {
		sumSq += x * x
	}
	norm := float32(math.Sqrt(float64(sumSq)))
	if norm < 1e-12 {
		norm = 1e-12
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// cosineDistance assumes both vectors are already unit-normalized, so
// cosine similarity is their dot product; distance is 1 - similarity,
// clamped to [0, 2].
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return 1.0
	}
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	d := 1 - dot
	if d < 0 {
		return 0
	}
	return d
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// minHeap and maxHeap are container/heap adapters over distItem for the
// ef-bounded best-first search in searchLayer.
type minHeap []distItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type maxHeap []distItem

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
