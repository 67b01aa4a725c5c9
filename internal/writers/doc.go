// Package writers turns feature rows into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (delimited text, JSONL, CBOR).
//   - Core packages stay I/O free; the pipeline stays orchestration-only.
//   - JSONL and CBOR go through pkg/api (v1) for a stable wire format.
//   - Output files are optionally compressed and always digested (BLAKE3)
//     so a run can log a fingerprint of exactly what it wrote.
package writers
