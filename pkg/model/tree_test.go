package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "911bc2b07dd96c21ef3ab8b56ffeca4e0b8d1b74ea7667dd67eb2d037c1b4880" +
	"d3b2533035d90f84ceb326ca9f0c47bb75e0ed3e86c959ab8d687b1739677278"

func TestTree_RoundTrip(t *testing.T) {
	tree := NewTree([]Entry{
		FileEntry("zz", 0644, testHash, 4),
		DirEntry("aa", 0755, testHash),
		SymlinkEntry("mm", "aa/zz"),
	})

	// NewTree sorts entries by name
	require.Len(t, tree.Entries, 3)
	assert.Equal(t, "aa", tree.Entries[0].Name)
	assert.Equal(t, "mm", tree.Entries[1].Name)
	assert.Equal(t, "zz", tree.Entries[2].Name)

	b, err := MarshalTree(tree)
	require.NoError(t, err)

	back, err := UnmarshalTree(b)
	require.NoError(t, err)
	assert.Equal(t, tree.Entries, back.Entries)
}

func TestTree_MarshalIsDeterministic(t *testing.T) {
	entries := []Entry{
		DirEntry("sub", 0755, testHash),
		FileEntry("file", 0644, testHash, 10),
	}

	b1, err := MarshalTree(NewTree(entries))
	require.NoError(t, err)
	b2, err := MarshalTree(NewTree([]Entry{entries[1], entries[0]}))
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestTree_RejectsBadEntries(t *testing.T) {
	for _, bad := range []Entry{
		{Name: "", Kind: KindFile, Hash: testHash},
		{Name: "..", Kind: KindDir, Hash: testHash},
		{Name: "a/b", Kind: KindFile, Hash: testHash},
		{Name: "f", Kind: KindFile},                  // no hash
		{Name: "s", Kind: KindSymlink},               // no target
		{Name: "x", Kind: EntryKind("device")},       // unknown kind
	} {
		tree := &Tree{Version: CurrentTreeVersion, Entries: []Entry{bad}}
		assert.Error(t, tree.Validate(), "entry %+v should not validate", bad)
	}
}

func TestTree_RejectsDuplicatesAndDisorder(t *testing.T) {
	dup := &Tree{Version: CurrentTreeVersion, Entries: []Entry{
		FileEntry("same", 0644, testHash, 1),
		FileEntry("same", 0644, testHash, 1),
	}}
	err := dup.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "out of order"))

	unsorted := &Tree{Version: CurrentTreeVersion, Entries: []Entry{
		FileEntry("bb", 0644, testHash, 1),
		FileEntry("aa", 0644, testHash, 1),
	}}
	assert.Error(t, unsorted.Validate())
}

func TestTree_Lookup(t *testing.T) {
	tree := NewTree([]Entry{
		FileEntry("one", 0644, testHash, 1),
		FileEntry("two", 0644, testHash, 2),
	})

	e := tree.Lookup("two")
	require.NotNil(t, e)
	assert.EqualValues(t, 2, e.Size)
	assert.Nil(t, tree.Lookup("three"))
}

func TestCommit_RoundTrip(t *testing.T) {
	c := &CommitDescriptor{
		Tree:      testHash,
		Message:   "initial",
		Timestamp: GetCommitTimeStamp(),
		Contributors: []Contributor{
			{Name: "dev", Email: "dev@example.com"},
		},
	}

	b, err := MarshalCommit(c)
	require.NoError(t, err)

	back, err := UnmarshalCommit(b)
	require.NoError(t, err)
	assert.Equal(t, c.Tree, back.Tree)
	assert.Equal(t, c.Message, back.Message)
	assert.Equal(t, "dev <dev@example.com>", back.Contributors[0].String())

	_, err = MarshalCommit(&CommitDescriptor{})
	assert.Error(t, err)
}
