package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// TraceEnvVar enables span recording for the run when set. Without it the
// adapter stays on the no-op path.
const TraceEnvVar = "OCTAHEDROFLAKE_TRACE"

// TracerNodeID is the unique identifier for the telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if os.Getenv(TraceEnvVar) == "" {
				return NewNoOpTracer(), nil
			}
			otel.SetTracerProvider(sdktrace.NewTracerProvider())
			return NewOTelTracer("octahedroflake"), nil
		},
	})
}
