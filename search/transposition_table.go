package search

import (
	"sync/atomic"

	"github.com/pbnjay/memory"

	"github.com/fgantt/shogi-ui-sub004/move"
)

// Bound tags a stored score with its relation to the search window.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

const slotSize = 16 // bytes, see slot

// slot packs one table entry into 16 bytes. The gate field is a
// spinless try-lock: readers and writers CAS it and walk away on
// contention, treating the slot as a miss. Entries are probabilistic
// hints; a dropped read or write costs a little reuse, never
// correctness.
type slot struct {
	gate         int32
	key32        uint32
	move         move.TinyMove
	score        int16
	flagAndDepth uint8 // bound in the top two bits, depth below
	gen          uint8
	_            [2]byte
}

// Entry is one probed or stored table record.
type Entry struct {
	Move  move.TinyMove
	Score int16
	Flag  Bound
	Depth int
}

// Table is the transposition table shared by every search worker. Its
// capacity is fixed at a power of two so a hash maps to a slot by
// masking.
type Table struct {
	slots []slot
	mask  uint64
	gen   uint8
}

// NewTable allocates a table of at most sizeMB mebibytes, clamped to
// half of physical memory.
func NewTable(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table. All stored entries are lost.
func (t *Table) Resize(sizeMB int) {
	bytes := uint64(sizeMB) << 20
	if total := memory.TotalMemory(); total > 0 && bytes > total/2 {
		bytes = total / 2
	}
	count := uint64(1024)
	for count*2*slotSize <= bytes {
		count *= 2
	}
	t.slots = make([]slot, count)
	t.mask = count - 1
	t.gen = 0
}

// Clear empties the table without reallocating.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = slot{}
	}
	t.gen = 0
}

// NextGeneration ages existing entries. Call it once per top-level
// search; the replacement policy then favors fresh results.
func (t *Table) NextGeneration() {
	t.gen++
}

// Entries returns the table's slot count.
func (t *Table) Entries() int { return len(t.slots) }

// Hashfull estimates table occupancy in permille by sampling a prefix
// of the slots, mirroring the USI hashfull info field. It reads slots
// without taking their gates, so call it between iterations, not while
// workers are storing.
func (t *Table) Hashfull() int {
	sample := min(len(t.slots), 1000)
	used := 0
	for i := 0; i < sample; i++ {
		s := &t.slots[i]
		if Bound(s.flagAndDepth>>6) != BoundNone && s.gen == t.gen {
			used++
		}
	}
	return used * 1000 / sample
}

// Probe looks up hash. A contended slot reads as a miss rather than
// waiting.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	s := &t.slots[hash&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		return Entry{}, false
	}
	key := s.key32
	fd := s.flagAndDepth
	e := Entry{
		Move:  s.move,
		Score: s.score,
		Flag:  Bound(fd >> 6),
		Depth: int(fd & 0x3f),
	}
	matched := e.Flag != BoundNone && key == uint32(hash>>32)
	if matched {
		s.gen = t.gen
	}
	atomic.StoreInt32(&s.gate, 0)
	if !matched {
		return Entry{}, false
	}
	return e, true
}

// Store writes an entry, dropping it when the slot is contended or the
// occupant outranks it. An occupant survives only if it is from the
// current generation and deeper than the newcomer, unless it records
// the same position.
func (t *Table) Store(hash uint64, e Entry) bool {
	s := &t.slots[hash&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		return false
	}
	key := uint32(hash >> 32)
	fd := s.flagAndDepth
	occupied := Bound(fd>>6) != BoundNone
	replace := !occupied ||
		s.key32 == key ||
		s.gen != t.gen ||
		e.Depth >= int(fd&0x3f)
	if replace {
		depth := e.Depth
		if depth < 0 {
			depth = 0
		}
		if depth > 0x3f {
			depth = 0x3f
		}
		s.key32 = key
		s.move = e.Move
		s.score = e.Score
		s.flagAndDepth = uint8(e.Flag)<<6 | uint8(depth)
		s.gen = t.gen
	}
	atomic.StoreInt32(&s.gate, 0)
	return replace
}

type pendingStore struct {
	hash  uint64
	move  move.TinyMove
	score int16
	flag  Bound
	depth uint8
}

// Writer batches a worker's stores so parallel workers touch the
// shared table in bursts instead of on every node. A size of one
// writes through, which is what a sequential search uses.
type Writer struct {
	table *Table
	buf   []pendingStore
	size  int

	// Stored and Dropped count flushed writes; the owner folds them
	// into its search statistics.
	Stored  uint64
	Dropped uint64
}

// NewWriter returns a writer buffering up to size stores.
func (t *Table) NewWriter(size int) *Writer {
	if size < 1 {
		size = 1
	}
	return &Writer{table: t, buf: make([]pendingStore, 0, size), size: size}
}

// Store queues one entry, flushing when the buffer fills.
func (w *Writer) Store(hash uint64, e Entry) {
	p := pendingStore{hash, e.Move, e.Score, e.Flag, uint8(min(max(e.Depth, 0), 0x3f))}
	if w.size == 1 {
		w.flushOne(p)
		return
	}
	w.buf = append(w.buf, p)
	if len(w.buf) >= w.size {
		w.Flush()
	}
}

// Flush drains the buffer into the table.
func (w *Writer) Flush() {
	for _, p := range w.buf {
		w.flushOne(p)
	}
	w.buf = w.buf[:0]
}

func (w *Writer) flushOne(p pendingStore) {
	if w.table.Store(p.hash, Entry{Move: p.move, Score: p.score, Flag: p.flag, Depth: int(p.depth)}) {
		w.Stored++
	} else {
		w.Dropped++
	}
}
