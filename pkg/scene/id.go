package scene

import "github.com/google/uuid"

// NodeID is a name-derived identifier for scene nodes. The same name always
// yields the same ID, so IDs are stable across evaluations of one script.
type NodeID uuid.UUID

// ZeroID is the unset NodeID.
var ZeroID NodeID

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("trigon/scene"))

// NewNodeID derives a NodeID from a node name.
func NewNodeID(name string) NodeID {
	return NodeID(uuid.NewSHA1(idNamespace, []byte(name)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first 8 hex digits, enough for log and error messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}
