package pipeline

import (
	"github.com/gostructural/featurecut/cache"
	"github.com/gostructural/featurecut/geom"
)

// meshValue adapts *geom.Mesh to cache.Mesh. geom.Mesh.Clone already
// returns *geom.Mesh rather than the cache.Mesh interface, so the two
// types do not satisfy each other structurally; this wrapper is the
// minimal bridge between them.
type meshValue struct {
	m *geom.Mesh
}

func (v meshValue) Clone() cache.Mesh {
	return meshValue{v.m.Clone()}
}

func (v meshValue) ByteSize() int64 {
	return v.m.ByteSize()
}
