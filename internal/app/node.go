package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/cache"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/logger"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the resolved application graph for the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Kernel ports.Kernel
	Store  ports.SolidStore
	Tracer ports.Tracer
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			geom.NodeID,
			cache.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			kernel, err := graft.Dep[ports.Kernel](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.SolidStore](ctx)
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
			return New(kernel, store, log, tracer), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			geom.NodeID,
			cache.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	kernel, err := graft.Dep[ports.Kernel](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.SolidStore](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
		Kernel: kernel,
		Store:  store,
		Tracer: tracer,
	}, nil
}
