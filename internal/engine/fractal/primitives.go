package fractal

import (
	"context"
	"fmt"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// SinglePyramid builds the order-scaled square-base pyramid with a one-layer
// fusing lip at its base. It is the intersection of two perpendicular wedge
// extrusions, which yields exact sloped faces instead of a lofted
// approximation.
func (b *Builder) SinglePyramid(ctx context.Context, order int) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartSinglePyramid, order), func() (ports.Solid, error) {
		factor := domain.ScaleFactor(order)
		base := b.cfg.EdgeSize * factor
		height := b.cfg.LayerHeight + b.cfg.PyramidHeight()*factor
		lip := b.cfg.LayerHeight

		profile := []domain.Vec2{
			{X: -base / 2, Y: 0},
			{X: base / 2, Y: 0},
			{X: base / 2, Y: lip},
			{X: 0, Y: height},
			{X: -base / 2, Y: lip},
		}
		wedge := b.kernel.Extrude(domain.PlaneXZ, -base/2, profile, base)
		return wedge.Intersect(wedge.RotateZ(90)), nil
	})
}

// Ribs builds the four sacrificial support ribs hugging the lower half of the
// pyramid edges. A rib starts as a vertical bar along one edge direction,
// is truncated to the lower half where bridging needs the support, tilted
// onto the pyramid edge, and clipped to the pyramid itself; mirroring
// produces the remaining three.
func (b *Builder) Ribs(ctx context.Context, order int) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartRibs, order), func() (ports.Solid, error) {
		pyramid, err := b.SinglePyramid(ctx, order)
		if err != nil {
			return nil, err
		}

		length := b.cfg.EdgeSize*domain.ScaleFactor(order) + b.cfg.LayerHeight
		bar := b.kernel.Extrude(domain.PlaneXY, -b.cfg.LayerHeight, rect(b.cfg.RibWidth, b.cfg.RibWidth*2), length)

		rib := bar.
			SplitZ(-b.cfg.LayerHeight+length/2, true).
			RotateZ(45).
			RotateAxis(domain.Vec3{}, domain.Vec3{X: 1, Y: 1}, 45).
			Translate(domain.Vec3{Z: b.cfg.LayerHeight}).
			Intersect(pyramid)

		pair := rib.Union(rib.Mirror(domain.PlaneZY))
		return pair.Union(pair.Mirror(domain.PlaneZX)), nil
	})
}

// Gaps builds the crossed clearance slabs cut between neighboring clones so
// the slicer keeps their perimeters separate. The cross spans the full clone
// footprint and stands one layer plus the projected gap tall.
func (b *Builder) Gaps(ctx context.Context, order int) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartGaps, order), func() (ports.Solid, error) {
		base := b.cfg.EdgeSize * domain.ScaleFactor(order)
		h := b.cfg.GapHeight()
		ns := b.kernel.Extrude(domain.PlaneXY, 0, rect(b.cfg.GapSize, base), h)
		ew := b.kernel.Extrude(domain.PlaneXY, 0, rect(base, b.cfg.GapSize), h)
		return ns.Union(ew), nil
	})
}

// Logo builds the branding insert: a small pyramid with the stamp pressed
// into one face, positioned flush on a face of the final fractal. Orders
// three and up get the larger stamp size; order one places the insert at the
// apex instead of a sub-face.
func (b *Builder) Logo(ctx context.Context) (ports.Solid, error) {
	return b.store.GetOrBuild(ctx, b.key(domain.PartLogo, b.cfg.Order), func() (ports.Solid, error) {
		size := 1
		if b.cfg.Order >= 3 {
			size = 2
		}
		b.logger.Info(fmt.Sprintf("building size %d logo insert", size))

		factor := domain.ScaleFactor(size)
		finalFactor := domain.ScaleFactor(b.cfg.Order)
		zTop := b.cfg.PyramidHeight()*finalFactor - b.cfg.PyramidHeight()*factor

		var shift, zShift float64
		if b.cfg.Order == 1 {
			zShift = zTop
		} else {
			shift = b.cfg.EdgeSize / 2 * factor
			zShift = zTop - b.cfg.PyramidHeight()*factor
		}

		pyramid, err := b.SinglePyramid(ctx, size)
		if err != nil {
			return nil, err
		}

		// Quarter mask: a cube rotated 45 degrees so one diagonal face of the
		// pyramid survives the intersection.
		boxSize := b.cfg.EdgeSize * domain.ScaleFactor(size+1)
		mask := b.kernel.Box(boxSize, boxSize, boxSize).
			Translate(domain.Vec3{X: boxSize / 2, Y: boxSize / 2}).
			RotateAxis(domain.Vec3{}, domain.Vec3{Z: 1}, -45)

		mm := factor * b.cfg.EdgeSize / 2
		stamp := b.kernel.ImportAsset(logoAsset).
			Scale(mm * 0.35).
			Translate(domain.Vec3{X: mm * 0.8, Y: -mm * 0.4, Z: mm * 0.25})

		return pyramid.Intersect(mask).
			Union(stamp).
			Translate(domain.Vec3{X: shift, Y: shift, Z: zShift}), nil
	})
}
