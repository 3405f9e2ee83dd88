package cache

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/logger"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// NodeID is the unique identifier for the solid store Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.SolidStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{geom.NodeID, logger.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.SolidStore, error) {
			kernel, err := graft.Dep[ports.Kernel](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(kernel, log, tracer, DefaultDir), nil
		},
	})
}
