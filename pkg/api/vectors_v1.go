// pkg/api/vectors_v1.go
package api

// VectorV1 is the stable JSONL/CBOR schema for one feature row.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
// CBOR uses integer keys to keep rows small.
type VectorV1 struct {
	Index  int       `json:"index" cbor:"1,keyasint"`
	ID     string    `json:"id" cbor:"2,keyasint"`
	Values []float64 `json:"values,omitempty" cbor:"3,keyasint,omitempty"` // oligo, cov
	Counts []uint64  `json:"counts,omitempty" cbor:"4,keyasint,omitempty"` // cgr
	Error  string    `json:"error,omitempty" cbor:"5,keyasint,omitempty"`
}

// MinimiserV1 is one sampled minimizer.
type MinimiserV1 struct {
	Kmer   string `json:"kmer" cbor:"1,keyasint"`
	Code   uint64 `json:"code" cbor:"2,keyasint"`
	Pos    int    `json:"pos" cbor:"3,keyasint"`
	Strand string `json:"strand" cbor:"4,keyasint"` // "+" | "-"
	Start  int    `json:"start" cbor:"5,keyasint"`
	End    int    `json:"end" cbor:"6,keyasint"`
}

// MinimiserRowV1 lists the minimizers of one sequence (s2m).
type MinimiserRowV1 struct {
	Index      int           `json:"index" cbor:"1,keyasint"`
	ID         string        `json:"id" cbor:"2,keyasint"`
	Minimisers []MinimiserV1 `json:"minimisers" cbor:"3,keyasint"`
	Error      string        `json:"error,omitempty" cbor:"4,keyasint,omitempty"`
}

// BinV1 groups sequence hits under one minimizer (m2s).
type BinV1 struct {
	Kmer string  `json:"kmer" cbor:"1,keyasint"`
	Hits []HitV1 `json:"hits" cbor:"2,keyasint"`
}

// HitV1 is one occurrence of a binned minimizer.
type HitV1 struct {
	ID    string `json:"id" cbor:"1,keyasint"`
	Start int    `json:"start" cbor:"2,keyasint"`
	End   int    `json:"end" cbor:"3,keyasint"`
}

// CountV1 is one canonical k-mer tally.
type CountV1 struct {
	Kmer  string `json:"kmer,omitempty" cbor:"1,keyasint,omitempty"`
	Code  uint64 `json:"code" cbor:"2,keyasint"`
	Count uint32 `json:"count" cbor:"3,keyasint"`
}
