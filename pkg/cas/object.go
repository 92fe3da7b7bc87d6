package cas

import (
	"bytes"
	"fmt"
	"io"

	"github.com/treecas/treecas/pkg/model"
)

// Kind of a stored object
type Kind string

const (
	// KindFile objects hold raw file content
	KindFile Kind = "file"

	// KindTree objects hold a serialized directory listing
	KindTree Kind = "tree"

	// KindCommit objects hold a serialized commit descriptor
	KindCommit Kind = "commit"
)

// objectMagic starts the header line of every stored object
const objectMagic = "treecas"

// ObjectView is the typed result of resolving a key: exactly one of File,
// Tree or Commit is populated, according to Kind.
type ObjectView struct {
	Kind   Kind
	Size   int64 // payload size in bytes
	File   io.ReadCloser
	Tree   *model.Tree
	Commit *model.CommitDescriptor
}

// WrongKindError is returned when a key resolves to an object of another
// kind than the operation expects.
type WrongKindError struct {
	Key  Key
	Want Kind
	Got  Kind
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("object %s is a %s, expected a %s", e.Key, e.Got, e.Want)
}

// encodeObject prepends the object header to a payload. The key of an
// object is the hash of the result.
func encodeObject(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %s v1\n", objectMagic, kind)
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header...)
	buf = append(buf, payload...)
	return buf
}

// decodeObject splits stored bytes into the declared kind and the payload.
func decodeObject(data []byte) (Kind, []byte, error) {
	eol := bytes.IndexByte(data, '\n')
	if eol < 0 {
		return "", nil, fmt.Errorf("missing object header")
	}
	var magic, kind, version string
	if _, err := fmt.Sscanf(string(data[:eol]), "%s %s %s", &magic, &kind, &version); err != nil {
		return "", nil, fmt.Errorf("malformed object header: %v", err)
	}
	if magic != objectMagic || version != "v1" {
		return "", nil, fmt.Errorf("malformed object header %q", string(data[:eol]))
	}
	switch k := Kind(kind); k {
	case KindFile, KindTree, KindCommit:
		return k, data[eol+1:], nil
	default:
		return "", nil, fmt.Errorf("unknown object kind %q", kind)
	}
}
