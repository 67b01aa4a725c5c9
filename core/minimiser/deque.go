package minimiser

import "kmertools/core/nucleotide"

type entry struct {
	code   uint64
	pos    int
	idx    int
	strand nucleotide.Strand
}

// deque is a fixed-capacity ring. Capacity w suffices because every entry
// older than w k-mers is evicted before the next push.
type deque struct {
	buf  []entry
	head int
	n    int
}

func newDeque(capacity int) deque { return deque{buf: make([]entry, capacity+1)} }

func (d *deque) reset() { d.head, d.n = 0, 0 }

func (d *deque) front() entry { return d.buf[d.head] }

func (d *deque) back() entry { return d.buf[(d.head+d.n-1)%len(d.buf)] }

func (d *deque) popFront() {
	d.head = (d.head + 1) % len(d.buf)
	d.n--
}

func (d *deque) popBack() { d.n-- }

func (d *deque) pushBack(e entry) {
	d.buf[(d.head+d.n)%len(d.buf)] = e
	d.n++
}
