package reactfx

import "time"

// Pool retains retired instances per effect type so that sustained load does
// not churn renderer allocations. Entries live in an index-addressed arena;
// each effect type keeps a free list of arena slots. Get copies the entry
// out and frees its slot, so callers never hold a reference into the arena.
type Pool struct {
	maxSize int
	slots   []Instance
	unused  []int                // arena slots holding nothing
	buckets map[EffectType][]int // retired entries per type, most recent last
}

// NewPool returns a pool retaining at most maxSize entries per effect type.
// maxSize <= 0 uses DefaultPoolMaxSize.
func NewPool(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = DefaultPoolMaxSize
	}
	return &Pool{
		maxSize: maxSize,
		buckets: make(map[EffectType][]int),
	}
}

// MaxSize returns the per-type capacity.
func (p *Pool) MaxSize() int { return p.maxSize }

// Get pops a retired instance of type t. The returned instance is in
// StatePending with zero progress and no identity. ok is false when the
// bucket is empty and the caller should allocate afresh.
func (p *Pool) Get(t EffectType) (inst Instance, ok bool) {
	bucket := p.buckets[t]
	if len(bucket) == 0 {
		return Instance{}, false
	}
	idx := bucket[len(bucket)-1]
	p.buckets[t] = bucket[:len(bucket)-1]
	inst = p.slots[idx]
	p.slots[idx] = Instance{}
	p.unused = append(p.unused, idx)
	return inst, true
}

// Put resets inst's runtime fields and retains it under its effect type.
// Returns false when the bucket is full or inst has no descriptor; the
// entry is discarded in that case.
func (p *Pool) Put(inst Instance) bool {
	t := inst.effectType()
	if t == "" || len(p.buckets[t]) >= p.maxSize {
		return false
	}
	resetInstance(&inst)

	var idx int
	if n := len(p.unused); n > 0 {
		idx = p.unused[n-1]
		p.unused = p.unused[:n-1]
	} else {
		idx = len(p.slots)
		p.slots = append(p.slots, Instance{})
	}
	p.slots[idx] = inst
	p.buckets[t] = append(p.buckets[t], idx)
	return true
}

// resetInstance clears everything but the descriptor and renderer. The
// descriptor is kept only so Put can bucket by type; callers overwrite it.
func resetInstance(inst *Instance) {
	inst.ID = 0
	inst.State = StatePending
	inst.Progress = 0
	inst.Start = time.Time{}
	inst.PausedAt = time.Time{}
	inst.completedAt = time.Time{}
	inst.Duration = 0
	inst.Callbacks = Callbacks{}
	inst.removal = 0
}

// Len returns the number of retained entries for t.
func (p *Pool) Len(t EffectType) int {
	return len(p.buckets[t])
}

// Size returns the total number of retained entries.
func (p *Pool) Size() int {
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Clear drops every retained entry and releases the arena.
func (p *Pool) Clear() {
	p.slots = nil
	p.unused = nil
	clear(p.buckets)
}
