package cas

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treecas/treecas/pkg/cas/status"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage"
	"github.com/treecas/treecas/pkg/storage/localfs"
)

func testStore(t *testing.T, opts ...Option) (Store, *Builder, storage.Store) {
	t.Helper()
	backend := localfs.New(afero.NewMemMapFs())
	store, err := New(append([]Option{Backend(backend)}, opts...)...)
	require.NoError(t, err)
	return store, NewBuilder(backend), backend
}

func TestStore_ResolveFile(t *testing.T) {
	ctx := context.Background()
	store, builder, _ := testStore(t)

	key, err := builder.PutFile(ctx, []byte("test"))
	require.NoError(t, err)

	view, err := store.Resolve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, KindFile, view.Kind)
	assert.EqualValues(t, 4, view.Size)

	b, err := io.ReadAll(view.File)
	require.NoError(t, err)
	require.NoError(t, view.File.Close())
	assert.Equal(t, "test", string(b))
}

func TestStore_ResolveTreeAndCommit(t *testing.T) {
	ctx := context.Background()
	store, builder, _ := testStore(t)

	fileKey, err := builder.PutFile(ctx, []byte("test"))
	require.NoError(t, err)

	treeKey, err := builder.PutTree(ctx, []model.Entry{
		model.FileEntry("testfile", 0644, fileKey.String(), 4),
		model.SymlinkEntry("link", "testfile"),
	})
	require.NoError(t, err)

	commitKey, err := builder.PutCommit(ctx, treeKey, "first")
	require.NoError(t, err)

	tree, err := store.GetTree(ctx, treeKey)
	require.NoError(t, err)
	require.Len(t, tree.Entries, 2)
	assert.Equal(t, "link", tree.Entries[0].Name)
	assert.Equal(t, "testfile", tree.Entries[1].Name)

	commit, err := store.GetCommit(ctx, commitKey)
	require.NoError(t, err)
	assert.Equal(t, treeKey.String(), commit.Tree)
	assert.Equal(t, "first", commit.Message)

	// kind mismatches are reported
	_, err = store.GetFile(ctx, treeKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrInvalidObject)

	var wrongKind *WrongKindError
	require.ErrorAs(t, err, &wrongKind)
	assert.Equal(t, KindTree, wrongKind.Got)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store, _, _ := testStore(t)

	missing := KeyFromBytes([]byte("never stored"))
	_, err := store.Resolve(ctx, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestStore_CorruptObject(t *testing.T) {
	ctx := context.Background()
	store, builder, backend := testStore(t)

	key, err := builder.PutFile(ctx, []byte("pristine content"))
	require.NoError(t, err)

	// tamper with the stored bytes behind the store's back
	tampered := encodeObject(KindFile, []byte("tampered content!"))
	err = backend.Put(ctx, key.StringWithPrefix(DefaultPrefix), bytes.NewReader(tampered), storage.OverWrite)
	require.NoError(t, err)

	_, err = store.Resolve(ctx, key)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCorrupt)
}

func TestStore_VerifyHashDisabled(t *testing.T) {
	ctx := context.Background()
	store, builder, backend := testStore(t, VerifyHash(false))

	key, err := builder.PutFile(ctx, []byte("pristine content"))
	require.NoError(t, err)

	tampered := encodeObject(KindFile, []byte("tampered content!"))
	err = backend.Put(ctx, key.StringWithPrefix(DefaultPrefix), bytes.NewReader(tampered), storage.OverWrite)
	require.NoError(t, err)

	// with verification off, the tampered payload is served as-is
	rdr, err := store.GetFile(ctx, key)
	require.NoError(t, err)
	b, _ := io.ReadAll(rdr)
	rdr.Close()
	assert.Equal(t, "tampered content!", string(b))
}

func TestStore_UnknownKind(t *testing.T) {
	ctx := context.Background()
	store, _, backend := testStore(t)

	data := encodeObject(Kind("device"), []byte("payload"))
	key := KeyFromBytes(data)
	err := backend.Put(ctx, key.StringWithPrefix(DefaultPrefix), bytes.NewReader(data), storage.IfNotPresent)
	require.NoError(t, err)

	_, err = store.Resolve(ctx, key)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrInvalidObject)
}

func TestStore_TreeCache(t *testing.T) {
	ctx := context.Background()
	store, builder, backend := testStore(t)

	fileKey, err := builder.PutFile(ctx, []byte("x"))
	require.NoError(t, err)
	treeKey, err := builder.PutTree(ctx, []model.Entry{
		model.FileEntry("f", 0644, fileKey.String(), 1),
	})
	require.NoError(t, err)

	tree1, err := store.GetTree(ctx, treeKey)
	require.NoError(t, err)

	// remove the backing object: the decoded listing must still be served
	require.NoError(t, backend.Delete(ctx, treeKey.StringWithPrefix(DefaultPrefix)))

	tree2, err := store.GetTree(ctx, treeKey)
	require.NoError(t, err)
	assert.Equal(t, tree1, tree2)
}

func TestStore_Has(t *testing.T) {
	ctx := context.Background()
	store, builder, _ := testStore(t)

	key, err := builder.PutFile(ctx, []byte("here"))
	require.NoError(t, err)

	has, err := store.Has(ctx, key)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.Has(ctx, KeyFromBytes([]byte("absent")))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBuilder_PutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, builder, _ := testStore(t)

	k1, err := builder.PutFile(ctx, []byte("same bytes"))
	require.NoError(t, err)
	k2, err := builder.PutFile(ctx, []byte("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}
