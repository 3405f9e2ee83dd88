package fractal

import (
	"context"
	"fmt"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// Stand builds the printable display stand: four fractal pyramids of the
// given order arranged corner to corner on a thin square slab, with
// clearance gaps and ribs applied at the next order up so the stand slices
// like the flake it supports.
func (b *Builder) Stand(ctx context.Context, order int) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartStand, order), func() (ports.Solid, error) {
		b.logger.Info(fmt.Sprintf("building order %d stand", order))

		pyramid, err := b.FractalPyramid(ctx, order)
		if err != nil {
			return nil, err
		}
		gaps, err := b.Gaps(ctx, order+1)
		if err != nil {
			return nil, err
		}
		ribs, err := b.Ribs(ctx, order+1)
		if err != nil {
			return nil, err
		}

		shift := b.cfg.EdgeSize / 2 * domain.ScaleFactor(order)
		slabSize := b.cfg.EdgeSize * domain.ScaleFactor(order+1)
		slab := b.kernel.Extrude(domain.PlaneXY, 0, rect(slabSize, slabSize), domain.BaseSlabThickness)

		return BalancedUnion(clones(pyramid, shift, 0)...).
			Cut(gaps).
			Union(ribs).
			Union(slab), nil
	})
}

// Pyramid is the final-order fractal pyramid, branded when the configuration
// asks for it. Branded and unbranded variants cache under distinct kinds so
// toggling the flag never serves the wrong body.
func (b *Builder) Pyramid(ctx context.Context) (ports.Solid, error) {
	if !b.cfg.Branded {
		return b.store.GetOrBuild(ctx, b.key(domain.PartUnbrandedPyramid, b.cfg.Order), func() (ports.Solid, error) {
			return b.FractalPyramid(ctx, b.cfg.Order)
		})
	}
	return b.store.GetOrBuild(ctx, b.key(domain.PartBrandedPyramid, b.cfg.Order), func() (ports.Solid, error) {
		pyramid, err := b.FractalPyramid(ctx, b.cfg.Order)
		if err != nil {
			return nil, err
		}
		logo, err := b.Logo(ctx)
		if err != nil {
			return nil, err
		}
		return pyramid.Union(logo), nil
	})
}

// PyramidArtifact is the half model exported on its own: the final pyramid
// fused onto a base slab so it prints as a standalone Sierpinski pyramid.
func (b *Builder) PyramidArtifact(ctx context.Context) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartPyramidWithBase, b.cfg.Order), func() (ports.Solid, error) {
		pyramid, err := b.Pyramid(ctx)
		if err != nil {
			return nil, err
		}
		size := b.cfg.EdgeSize * domain.ScaleFactor(b.cfg.Order)
		slab := b.kernel.Extrude(domain.PlaneXY, 0, rect(size, size), domain.BaseSlabThickness)
		return pyramid.Union(slab), nil
	})
}

// MirrorPyramid is the final pyramid reflected under the build plate and
// lifted one layer, forming the lower half of the bipyramid.
func (b *Builder) MirrorPyramid(ctx context.Context) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartMirrorPyramid, b.cfg.Order), func() (ports.Solid, error) {
		pyramid, err := b.Pyramid(ctx)
		if err != nil {
			return nil, err
		}
		return pyramid.Mirror(domain.PlaneXY).Translate(domain.Vec3{Z: b.cfg.LayerHeight}), nil
	})
}

// OctahedronFractal assembles the complete printable flake: the upper and
// mirrored pyramid halves raised clear of the plate, resting on a stand two
// orders smaller. Order zero is a bare octahedron and gets no stand.
func (b *Builder) OctahedronFractal(ctx context.Context) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartOctahedron, b.cfg.Order), func() (ports.Solid, error) {
		ctx, span := b.tracer.Start(ctx, "fractal.compose")
		defer span.End()
		span.SetAttribute("order", b.cfg.Order)

		upper, err := b.Pyramid(ctx)
		if err != nil {
			return nil, err
		}
		mirrored, err := b.MirrorPyramid(ctx)
		if err != nil {
			return nil, err
		}

		lift := b.cfg.PyramidHeight() * domain.ScaleFactor(b.cfg.Order)
		body := upper.Union(mirrored).Translate(domain.Vec3{Z: lift})
		if b.cfg.Order == 0 {
			return body, nil
		}

		standOrder := b.cfg.Order - 2
		if standOrder < 0 {
			standOrder = 0
		}
		stand, err := b.Stand(ctx, standOrder)
		if err != nil {
			return nil, err
		}
		return body.Union(stand), nil
	})
}
