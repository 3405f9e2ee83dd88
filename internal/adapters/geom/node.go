package geom

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// NodeID is the unique identifier for the geometry kernel Graft node.
const NodeID graft.ID = "adapter.geom"

func init() {
	graft.Register(graft.Node[ports.Kernel]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Kernel, error) {
			return NewKernel(), nil
		},
	})
}
