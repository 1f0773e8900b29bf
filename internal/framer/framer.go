// Package framer accumulates raw byte chunks from the daemon's stdout and
// yields complete newline-terminated records.
//
// Chunks arrive with no alignment to logical records: a record may be split
// across any number of reads, or several records may share one read. The
// framer retains the trailing partial record across calls, so feeding the
// same byte stream under any chunking yields the same record sequence.
package framer

import "bytes"

// Framer splits a chunked byte stream into newline-terminated records.
//
// The zero value is ready to use. Framer is not safe for concurrent use;
// exactly one consumer owns the daemon's stdout.
type Framer struct {
	// partial holds at most one incomplete record between calls.
	partial []byte
}

// Feed appends chunk to the internal buffer and returns all complete records
// accumulated so far, in arrival order, without their trailing newlines.
// Blank records are returned as empty slices; filtering them is the caller's
// concern. Returned slices are copies and remain valid after the next Feed.
func (f *Framer) Feed(chunk []byte) [][]byte {
	if len(chunk) == 0 {
		return nil
	}

	data := append(f.partial, chunk...)

	var records [][]byte

	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}

		record := make([]byte, idx)
		copy(record, data[:idx])
		records = append(records, record)

		data = data[idx+1:]
	}

	// Retain the final (possibly empty) fragment as the new buffer.
	f.partial = append(f.partial[:0:0], data...)

	return records
}

// Pending returns a copy of the retained incomplete record, if any.
func (f *Framer) Pending() []byte {
	if len(f.partial) == 0 {
		return nil
	}

	return append([]byte(nil), f.partial...)
}

// Reset discards any retained partial record.
func (f *Framer) Reset() {
	f.partial = nil
}
