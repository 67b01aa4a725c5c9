// Package counter tallies canonical k-mers across many sequences and turns
// the tallies into per-read coverage histograms.
package counter

import (
	"cmp"
	"slices"
	"sync"

	"kmertools/core/kmer"
	"kmertools/core/nucleotide"
)

const shardCount = 64

type shard struct {
	mu sync.Mutex
	m  map[uint64]uint32
}

// Counter is safe for concurrent Add calls.
type Counter struct {
	k      int
	policy nucleotide.Policy
	shards [shardCount]shard
}

// Count is one canonical k-mer and its tally.
type Count struct {
	Code  uint64
	Count uint32
}

// New returns a counter for k-mers of length k (1..32).
func New(k int, policy nucleotide.Policy) (*Counter, error) {
	if err := nucleotide.CheckRange("k", k, 1, nucleotide.MaxK); err != nil {
		return nil, err
	}
	c := &Counter{k: k, policy: policy}
	for i := range c.shards {
		c.shards[i].m = make(map[uint64]uint32)
	}
	return c, nil
}

func (c *Counter) K() int { return c.k }

// fibonacci hashing spreads neighbouring codes across shards
func shardOf(code uint64) int { return int((code * 0x9E3779B97F4A7C15) >> 58) }

// Add counts every canonical k-mer of seq. On an invalid base the k-mers
// before it stay counted and the error is returned.
func (c *Counter) Add(seq []byte) error {
	g, err := kmer.New(seq, c.k, kmer.WithPolicy(c.policy))
	if err != nil {
		return err
	}
	// batch locally to take each shard lock once per sequence
	local := make(map[uint64]uint32)
	for {
		p, ok := g.Next()
		if !ok {
			break
		}
		local[p.Canonical()]++
	}
	for code, n := range local {
		s := &c.shards[shardOf(code)]
		s.mu.Lock()
		s.m[code] += n
		s.mu.Unlock()
	}
	return g.Err()
}

// Get returns the tally of the k-mer with the given code (either strand).
func (c *Counter) Get(code uint64) uint32 {
	code = min(code, nucleotide.RevCompCode(code, c.k))
	s := &c.shards[shardOf(code)]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[code]
}

// Len is the number of distinct canonical k-mers.
func (c *Counter) Len() int {
	n := 0
	for i := range c.shards {
		c.shards[i].mu.Lock()
		n += len(c.shards[i].m)
		c.shards[i].mu.Unlock()
	}
	return n
}

// Sorted returns all tallies ordered by code.
func (c *Counter) Sorted() []Count {
	var out []Count
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for code, n := range s.m {
			out = append(out, Count{Code: code, Count: n})
		}
		s.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Code, b.Code) })
	return out
}

// Lookup is anything that can report the tally of a canonical code.
type Lookup interface {
	Get(code uint64) uint32
}

// Histogram bins the k-mers of seq by their global tally: bin =
// min(count/binSize, binCount-1). With norm the bins are divided by the
// number of k-mers read.
func Histogram(seq []byte, k int, policy nucleotide.Policy, counts Lookup, binSize, binCount int, norm bool) ([]float64, error) {
	if err := nucleotide.CheckRange("bin-size", binSize, 1, 1<<30); err != nil {
		return nil, err
	}
	if err := nucleotide.CheckRange("bin-count", binCount, 1, 1<<20); err != nil {
		return nil, err
	}
	vec := make([]float64, binCount)
	g, err := kmer.New(seq, k, kmer.WithPolicy(policy))
	if err != nil {
		return nil, err
	}
	total := 0.0
	for {
		p, ok := g.Next()
		if !ok {
			break
		}
		bin := min(int(counts.Get(p.Canonical()))/binSize, binCount-1)
		vec[bin]++
		total++
	}
	if err := g.Err(); err != nil {
		return nil, err
	}
	if norm {
		d := max(1, total)
		for i := range vec {
			vec[i] /= d
		}
	}
	return vec, nil
}
