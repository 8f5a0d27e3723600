package graph

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// NodeID is a content-addressed node identifier: the BLAKE2b-256 digest of
// the node's path in the source (e.g. "defpart/front"). The same program
// always yields the same IDs, so graphs from successive evaluations can be
// diffed node by node.
type NodeID [blake2b.Size256]byte

// ZeroID is the zero NodeID, used for "no reference".
var ZeroID NodeID

// NewNodeID derives a NodeID from a source path.
func NewNodeID(path string) NodeID {
	return NodeID(blake2b.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Compare orders IDs bytewise, returning -1, 0 or +1.
func (id NodeID) Compare(other NodeID) int {
	return bytes.Compare(id[:], other[:])
}

// String returns the full hex encoding.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 6 bytes in hex, for messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

// MarshalText encodes the ID as hex so that JSON maps keyed by NodeID stay
// readable.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex ID written by MarshalText.
func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("graph: node id: want %d hex chars, got %d", 2*len(id), len(b))
	}
	_, err := hex.Decode(id[:], b)
	return err
}

// ContentHash is the BLAKE2b-256 digest of a node's kind, data and children.
// Two nodes with the same hash describe the same geometry.
type ContentHash [blake2b.Size256]byte

// Short returns the first 6 bytes in hex.
func (h ContentHash) Short() string {
	return hex.EncodeToString(h[:6])
}

// HashNode computes the content hash of n. Children contribute their IDs, so
// a node's hash changes whenever anything beneath it changes path.
func HashNode(n *Node) ContentHash {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\x00%s\x00%T\x00", n.Kind, n.Name, n.Data)
	if err := json.NewEncoder(&buf).Encode(n.Data); err != nil {
		buf.WriteString(err.Error())
	}
	for _, c := range n.Children {
		buf.Write(c[:])
	}
	return ContentHash(blake2b.Sum256(buf.Bytes()))
}

// SourceRef locates the source form that produced a node. Line and Col are
// 1-based; zero means unknown.
type SourceRef struct {
	Line int `json:"line,omitempty"`
	Col  int `json:"col,omitempty"`
}
