// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage/localfs"
)

// populateStore writes a small commit into an on-disk object store and
// returns its checksum.
func populateStore(t *testing.T, storePath string) cas.Key {
	t.Helper()
	ctx := context.Background()

	backend := localfs.New(afero.NewBasePathFs(afero.NewOsFs(), storePath))
	builder := cas.NewBuilder(backend)

	fileKey, err := builder.PutFile(ctx, []byte("test"))
	require.NoError(t, err)
	subTree, err := builder.PutTree(ctx, []model.Entry{
		model.FileEntry("testfile", 0644, fileKey.String(), 4),
	})
	require.NoError(t, err)
	rootTree, err := builder.PutTree(ctx, []model.Entry{
		model.DirEntry("testdir", 0755, subTree.String()),
	})
	require.NoError(t, err)
	commitKey, err := builder.PutCommit(ctx, rootTree, "cli fixture")
	require.NoError(t, err)
	return commitKey
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	fatalCalls := 0
	savedFatalln, savedFatalf := logFatalln, logFatalf
	logFatalln = func(v ...interface{}) { fatalCalls++; t.Log(v...) }
	logFatalf = func(format string, v ...interface{}) { fatalCalls++; t.Logf(format, v...) }
	defer func() { logFatalln, logFatalf = savedFatalln, savedFatalf }()

	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	require.Zero(t, fatalCalls, "command %v must not fail", args)
}

func TestCLI_CheckoutVerify(t *testing.T) {
	storePath := t.TempDir()
	destPath := filepath.Join(t.TempDir(), "dest")
	commitKey := populateStore(t, storePath)

	runCLI(t,
		"checkout", commitKey.String(), destPath,
		"--store", storePath,
		"--loglevel", "none",
	)

	b, err := os.ReadFile(filepath.Join(destPath, "testdir", "testfile"))
	require.NoError(t, err)
	assert.Equal(t, "test", string(b))

	out := &bytes.Buffer{}
	savedInfo := infoLogger
	infoLogger = log.New(out, "", 0)
	defer func() { infoLogger = savedInfo }()

	runCLI(t,
		"verify", commitKey.String(),
		"--store", storePath,
		"--loglevel", "none",
	)
	assert.Contains(t, out.String(), "verified 1 commits, 2 trees, 1 files")
}

func TestCLI_CheckoutSubpathAndModes(t *testing.T) {
	storePath := t.TempDir()
	destPath := filepath.Join(t.TempDir(), "dest")
	commitKey := populateStore(t, storePath)

	runCLI(t,
		"checkout", commitKey.String(), destPath,
		"--store", storePath,
		"--subpath", "sub/area",
		"--mode", "hardlink-user",
		"--overwrite", "add-files",
		"--loglevel", "none",
	)

	b, err := os.ReadFile(filepath.Join(destPath, "sub", "area", "testdir", "testfile"))
	require.NoError(t, err)
	assert.Equal(t, "test", string(b))
}
