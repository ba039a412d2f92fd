package mediaref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("AllocateAndResolve", func(t *testing.T) {
		r := NewRegistry()

		handle := r.Allocate("upload-1")
		assert.True(t, strings.HasPrefix(handle.URL(), "/media/"))

		uploadID, ok := r.Resolve(handle.Token())
		require.True(t, ok)
		assert.Equal(t, "upload-1", uploadID)
		assert.Equal(t, 1, r.Active())
	})

	t.Run("ReleaseRevokes", func(t *testing.T) {
		r := NewRegistry()

		handle := r.Allocate("upload-1")
		handle.Release()

		_, ok := r.Resolve(handle.Token())
		assert.False(t, ok)
		assert.Equal(t, 0, r.Active())
	})

	t.Run("DoubleReleaseIsNoOp", func(t *testing.T) {
		r := NewRegistry()

		first := r.Allocate("upload-1")
		second := r.Allocate("upload-2")

		first.Release()
		first.Release()

		_, ok := r.Resolve(second.Token())
		assert.True(t, ok)
		assert.Equal(t, 1, r.Active())
	})

	t.Run("RetainKeepsReferenceAlive", func(t *testing.T) {
		r := NewRegistry()

		handle := r.Allocate("upload-1")
		handle.Retain()
		handle.Release()

		_, ok := r.Resolve(handle.Token())
		assert.True(t, ok)

		handle.Release()

		_, ok = r.Resolve(handle.Token())
		assert.False(t, ok)
	})

	t.Run("RetainAfterRevokeDoesNotResurrect", func(t *testing.T) {
		r := NewRegistry()

		handle := r.Allocate("upload-1")
		handle.Release()
		handle.Retain()

		_, ok := r.Resolve(handle.Token())
		assert.False(t, ok)
	})

	t.Run("ReleaseAll", func(t *testing.T) {
		r := NewRegistry()

		r.Allocate("upload-1")
		r.Allocate("upload-2")
		r.ReleaseAll()

		assert.Equal(t, 0, r.Active())
	})
}
