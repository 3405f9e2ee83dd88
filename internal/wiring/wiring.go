// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/nat-a-cyborg/octahedroflake/internal/adapters/cache"
	_ "github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	_ "github.com/nat-a-cyborg/octahedroflake/internal/adapters/logger"
	_ "github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/nat-a-cyborg/octahedroflake/internal/app"
)
