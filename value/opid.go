package value

import "fmt"

// OpID addresses one node of a scene's expression DAG: a scene id plus an
// index into that scene's ops array. NullOp is the sentinel used where no
// op is wanted (e.g. an unset attribute).
type OpID struct {
	SceneID uint32
	Index   uint32
}

// NullOp is the (0, 0) sentinel OpID.
var NullOp = OpID{}

func (o OpID) IsNull() bool { return o == NullOp }

func (o OpID) String() string { return fmt.Sprintf("Op(%d:%d)", o.SceneID, o.Index) }
