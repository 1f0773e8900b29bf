package protocol

import (
	"encoding/json"

	"github.com/tgs-lang/parser-sdk-go/internal/errors"
)

// request is the outbound wire form for content-based requests.
type request struct {
	Content  string `json:"content"`
	FilePath string `json:"file_path"`
}

// readiness is the startup handshake, emitted exactly once by the daemon.
type readiness struct {
	Status string `json:"status"`
}

// Record is one decoded inbound wire record.
// Exactly one of Ready or Envelope is meaningful.
type Record struct {
	Ready    bool
	Envelope *ResultEnvelope
}

// EncodeRequest encodes a content-carrying request as a single JSON line.
// The trailing newline is the writer's responsibility.
func EncodeRequest(content, filePath string) ([]byte, error) {
	data, err := json.Marshal(request{Content: content, FilePath: filePath})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// EncodeFileRequest encodes the alternate minimal form: a bare file path with
// no JSON wrapper, for file-based requests without inline content.
func EncodeFileRequest(filePath string) []byte {
	return []byte(filePath)
}

// DecodeRecord parses one framed record from the daemon.
//
// A record with status "ready" is the startup handshake; any other decodable
// object is a ResultEnvelope for the oldest outstanding request. Decode
// failures return MalformedRecordError; the stream continues, since an
// uncorrelatable response can only be skipped.
func DecodeRecord(line []byte) (*Record, error) {
	var ready readiness
	if err := json.Unmarshal(line, &ready); err != nil {
		return nil, &errors.MalformedRecordError{RawRecord: string(line), Err: err}
	}

	if ready.Status == "ready" {
		return &Record{Ready: true}, nil
	}

	var env ResultEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, &errors.MalformedRecordError{RawRecord: string(line), Err: err}
	}

	return &Record{Envelope: &env}, nil
}
