package tgsparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck_OneShot(t *testing.T) {
	fake := newFakeTransport(`{"success": true, "schemas": 1, "file": "a.tgs"}`)

	result, err := Check(context.Background(), "a.tgs", "create schema A(Id: int;)",
		WithTransport(fake),
	)
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Equal(t, 1, result.Schemas)

	// One-shot means the daemon does not outlive the call.
	require.True(t, fake.wasClosed())
}

func TestCheck_SubmitErrorWrapsPath(t *testing.T) {
	fake := newFakeTransport()
	fake.silentStart = true

	_, err := Check(context.Background(), "a.tgs", "content",
		WithTransport(fake),
		WithStartupTimeout(1),
	)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStartupTimeout)
	require.Contains(t, err.Error(), "a.tgs")
}

func TestCheckFile_OneShot(t *testing.T) {
	fake := newFakeTransport(`{"success": true, "imports": 3}`)

	result, err := CheckFile(context.Background(), "schemas/order.tgs",
		WithTransport(fake),
	)
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Equal(t, 3, result.Imports)
	require.True(t, fake.wasClosed())
}
