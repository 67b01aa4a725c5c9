// internal/writers/rows.go
package writers

import (
	"strconv"

	"kmertools/pkg/api"
)

// Floats are written with six decimals and counts as plain integers so the
// files line up byte for byte with existing feature files.
const floatPrec = 6

// AppendVector renders one vector row. Failed rows render as an empty line
// to keep row i aligned with input sequence i.
func AppendVector(dst []byte, v api.VectorV1, delim byte) []byte {
	if v.Error == "" {
		switch {
		case v.Counts != nil:
			for i, c := range v.Counts {
				if i > 0 {
					dst = append(dst, delim)
				}
				dst = strconv.AppendUint(dst, c, 10)
			}
		default:
			for i, f := range v.Values {
				if i > 0 {
					dst = append(dst, delim)
				}
				dst = strconv.AppendFloat(dst, f, 'f', floatPrec, 64)
			}
		}
	}
	return append(dst, '\n')
}

// AppendLabels renders a header row.
func AppendLabels(dst []byte, labels []string, delim byte) []byte {
	for i, l := range labels {
		if i > 0 {
			dst = append(dst, delim)
		}
		dst = append(dst, l...)
	}
	return append(dst, '\n')
}

func appendSpan(dst []byte, name string, start, end int) []byte {
	dst = append(dst, name...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(start), 10)
	dst = append(dst, '-')
	return strconv.AppendInt(dst, int64(end), 10)
}

// AppendMinimiserRow renders the s2m layout: the sequence id followed by one
// KMER:start-end cell per minimizer, tab separated.
func AppendMinimiserRow(dst []byte, r api.MinimiserRowV1) []byte {
	dst = append(dst, r.ID...)
	if r.Error == "" {
		for _, m := range r.Minimisers {
			dst = append(dst, '\t')
			dst = appendSpan(dst, m.Kmer, m.Start, m.End)
		}
	}
	return append(dst, '\n')
}

// AppendBin renders the m2s layout: the minimizer followed by one
// id:start-end cell per sequence window that selected it.
func AppendBin(dst []byte, b api.BinV1) []byte {
	dst = append(dst, b.Kmer...)
	for _, h := range b.Hits {
		dst = append(dst, '\t')
		dst = appendSpan(dst, h.ID, h.Start, h.End)
	}
	return append(dst, '\n')
}

// AppendCount renders "kmer<TAB>count"; the k-mer is its ACGT label when
// set, else the numeric code.
func AppendCount(dst []byte, c api.CountV1) []byte {
	if c.Kmer != "" {
		dst = append(dst, c.Kmer...)
	} else {
		dst = strconv.AppendUint(dst, c.Code, 10)
	}
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(c.Count), 10)
	return append(dst, '\n')
}
