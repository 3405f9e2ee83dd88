package fractal

import (
	"context"
	"fmt"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// FractalPyramid builds the order-N fractal pyramid. Order zero is the plain
// pyramid; each higher order assembles six clones of the previous order (one
// upright, one mirrored under it, four at the corners), then cuts the
// clearance gaps and fuses the support ribs for the new scale.
//
// Every level is cached individually, so the recursion performs real work
// only for orders the store has never seen.
func (b *Builder) FractalPyramid(ctx context.Context, order int) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartFractalPyramid, order), func() (ports.Solid, error) {
		if order == 0 {
			return b.SinglePyramid(ctx, 0)
		}

		ctx, span := b.tracer.Start(ctx, "fractal.assemble")
		defer span.End()
		span.SetAttribute("order", order)
		b.logger.Info(fmt.Sprintf("assembling order %d fractal pyramid", order))

		lower, err := b.FractalPyramid(ctx, order-1)
		if err != nil {
			return nil, err
		}
		ribs, err := b.Ribs(ctx, order)
		if err != nil {
			return nil, err
		}
		gaps, err := b.Gaps(ctx, order)
		if err != nil {
			return nil, err
		}

		factor := domain.ScaleFactor(order - 1)
		shift := b.cfg.EdgeSize / 2 * factor
		height := (b.cfg.CombinedHeight() + b.cfg.LayerHeight) * factor
		zShift := 2*b.cfg.LayerHeight - height

		// The mirrored clone hangs under the upright one; together they form
		// the octahedral core the corner clones attach to.
		mirrored := lower.Mirror(domain.PlaneXY).Translate(domain.Vec3{Z: b.cfg.LayerHeight})
		center := lower.Union(mirrored).
			Translate(domain.Vec3{Z: (factor - 1) * -2 * b.cfg.LayerHeight})

		south := lower.Translate(domain.Vec3{X: -shift, Y: shift, Z: zShift})
		west := lower.Translate(domain.Vec3{X: -shift, Y: -shift, Z: zShift})
		north := lower.Translate(domain.Vec3{X: shift, Y: -shift, Z: zShift})
		east := lower.Translate(domain.Vec3{X: shift, Y: shift, Z: zShift})

		return BalancedUnion(center, south, west, north, east).
			Translate(domain.Vec3{Z: height - 2*b.cfg.LayerHeight}).
			Cut(gaps).
			Union(ribs), nil
	})
}

// clones places four copies of s at the compass corners of the given
// half-diagonal shift, all at z.
func clones(s ports.Solid, shift, z float64) []ports.Solid {
	return []ports.Solid{
		s.Translate(domain.Vec3{X: shift, Y: -shift, Z: z}),
		s.Translate(domain.Vec3{X: shift, Y: shift, Z: z}),
		s.Translate(domain.Vec3{X: -shift, Y: shift, Z: z}),
		s.Translate(domain.Vec3{X: -shift, Y: -shift, Z: z}),
	}
}
