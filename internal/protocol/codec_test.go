package protocol

import (
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/require"

	"github.com/tgs-lang/parser-sdk-go/internal/errors"
)

func TestEncodeRequest(t *testing.T) {
	data, err := EncodeRequest("create schema A(Id: int;)", "a.tgs")
	require.NoError(t, err)
	require.JSONEq(t, `{"content":"create schema A(Id: int;)","file_path":"a.tgs"}`, string(data))
	require.NotContains(t, string(data), "\n")
}

func TestEncodeRequest_EscapesEmbeddedNewlines(t *testing.T) {
	data, err := EncodeRequest("line one\nline two", "multi.tgs")
	require.NoError(t, err)

	// The request must stay a single wire line no matter the content.
	require.NotContains(t, string(data), "\n")
}

func TestEncodeFileRequest(t *testing.T) {
	require.Equal(t, "schemas/order.tgs", string(EncodeFileRequest("schemas/order.tgs")))
}

func TestDecodeRecord_Ready(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"status": "ready"}`))
	require.NoError(t, err)
	require.True(t, rec.Ready)
	require.Nil(t, rec.Envelope)
}

func TestDecodeRecord_Result(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"success": true, "schemas": 2, "enums": 1, "imports": 3, "file": "a.tgs"}`))
	require.NoError(t, err)
	require.False(t, rec.Ready)
	require.NotNil(t, rec.Envelope)
	require.True(t, rec.Envelope.Success)
	require.Equal(t, 2, rec.Envelope.Schemas)
	require.Equal(t, 1, rec.Envelope.Enums)
	require.Equal(t, 3, rec.Envelope.Imports)
	require.Equal(t, "a.tgs", rec.Envelope.File)
}

func TestDecodeRecord_FailureWithErrors(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"success": false, "errors": ["3<SPACE>missing semicolon"]}`))
	require.NoError(t, err)
	require.False(t, rec.Envelope.Success)
	require.Equal(t, []string{"3<SPACE>missing semicolon"}, rec.Envelope.Errors)
}

func TestDecodeRecord_Malformed(t *testing.T) {
	for _, raw := range []string{`{"success":tru`, `not json`, `42`, `"bare string"`} {
		rec, err := DecodeRecord([]byte(raw))
		require.Nil(t, rec, "record for %q", raw)

		var malformed *errors.MalformedRecordError

		require.ErrorAs(t, err, &malformed, "error for %q", raw)
		require.Equal(t, raw, malformed.RawRecord)
		require.Error(t, stderrors.Unwrap(malformed))
	}
}
