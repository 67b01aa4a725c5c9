// Package pipeline streams sequence records from FASTA/FASTQ files through a
// pool of workers and hands the results back in input order.
//
// The only contract is the work function: it turns one record into one
// result. This keeps the pipeline independent of the feature being computed.
package pipeline
