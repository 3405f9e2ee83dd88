package geom

import (
	"encoding/json"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// nodeDTO is the serialized form of one expression node. This is the
// exact-geometry representation: decoding rebuilds an identical tree with an
// identical structural hash.
type nodeDTO struct {
	Kind       string       `json:"kind"`
	Plane      string       `json:"plane,omitempty"`
	Offset     float64      `json:"offset,omitempty"`
	Depth      float64      `json:"depth,omitempty"`
	Profile    [][2]float64 `json:"profile,omitempty"`
	Dims       []float64    `json:"dims,omitempty"`
	Asset      string       `json:"asset,omitempty"`
	Move       []float64    `json:"move,omitempty"`
	Angle      float64      `json:"angle,omitempty"`
	AxisStart  []float64    `json:"axis_start,omitempty"`
	AxisEnd    []float64    `json:"axis_end,omitempty"`
	Factor     float64      `json:"factor,omitempty"`
	Z          float64      `json:"z,omitempty"`
	KeepBottom bool         `json:"keep_bottom,omitempty"`
	Children   []nodeDTO    `json:"children,omitempty"`
}

// Encode serializes a solid into its exact-geometry JSON representation.
func (k *Kernel) Encode(s ports.Solid) ([]byte, error) {
	node, ok := s.(*solid)
	if !ok {
		return nil, zerr.Wrap(domain.ErrKernel, "solid from a foreign kernel")
	}
	if node.err != nil {
		return nil, node.err
	}
	return json.Marshal(encodeNode(node))
}

func encodeNode(s *solid) nodeDTO {
	dto := nodeDTO{Kind: opNames[s.kind]}
	switch s.kind {
	case opExtrude:
		dto.Plane = s.plane.String()
		dto.Offset = s.offset
		dto.Depth = s.depth
		dto.Profile = make([][2]float64, len(s.profile))
		for i, p := range s.profile {
			dto.Profile[i] = [2]float64{p.X, p.Y}
		}
	case opBox:
		dto.Dims = []float64{s.dims.X, s.dims.Y, s.dims.Z}
	case opImport:
		dto.Asset = s.asset
	case opTranslate:
		dto.Move = []float64{s.move.X, s.move.Y, s.move.Z}
	case opRotateZ:
		dto.Angle = s.angle
	case opRotateAxis:
		dto.AxisStart = []float64{s.axisStart.X, s.axisStart.Y, s.axisStart.Z}
		dto.AxisEnd = []float64{s.axisEnd.X, s.axisEnd.Y, s.axisEnd.Z}
		dto.Angle = s.angle
	case opMirror:
		dto.Plane = s.mirror.String()
	case opScale:
		dto.Factor = s.factor
	case opSplit:
		dto.Z = s.z
		dto.KeepBottom = s.keepBottom
	}
	if s.kind != opImport {
		for _, c := range s.children {
			dto.Children = append(dto.Children, encodeNode(c))
		}
	}
	return dto
}

// Decode reconstructs a solid from Encode output. The rebuild goes through
// internal constructors and performs no countable kernel work, so loading
// from the persistent cache never inflates the op counters.
func (k *Kernel) Decode(data []byte) (ports.Solid, error) {
	var dto nodeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal solid")
	}
	return k.decodeNode(dto)
}

func (k *Kernel) decodeNode(dto nodeDTO) (*solid, error) {
	children := make([]*solid, 0, len(dto.Children))
	for _, c := range dto.Children {
		child, err := k.decodeNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	switch dto.Kind {
	case "extrude":
		plane, ok := domain.PlaneFromString(dto.Plane)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, "unknown plane"), "plane", dto.Plane)
		}
		profile := make([]domain.Vec2, len(dto.Profile))
		for i, p := range dto.Profile {
			profile[i] = domain.Vec2{X: p[0], Y: p[1]}
		}
		return k.newExtrude(plane, dto.Offset, profile, dto.Depth), nil
	case "box":
		if len(dto.Dims) != 3 {
			return nil, zerr.Wrap(domain.ErrCorruptArtifact, "malformed box dims")
		}
		return (&solid{k: k, kind: opBox, dims: vec3(dto.Dims)}).finish(), nil
	case "import":
		k.mu.RLock()
		asset, ok := k.assets[dto.Asset]
		k.mu.RUnlock()
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, "artifact references an unregistered asset"), "asset", dto.Asset)
		}
		return (&solid{k: k, kind: opImport, asset: dto.Asset, children: []*solid{asset}}).finish(), nil
	case "union", "intersect", "cut":
		if len(children) != 2 {
			return nil, zerr.Wrap(domain.ErrCorruptArtifact, "boolean needs two operands")
		}
		kind := map[string]opKind{"union": opUnion, "intersect": opIntersect, "cut": opCut}[dto.Kind]
		return (&solid{k: k, kind: kind, children: children}).finish(), nil
	}

	if len(children) != 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, "unknown node kind"), "kind", dto.Kind)
	}
	node := &solid{k: k, children: children}
	switch dto.Kind {
	case "translate":
		node.kind = opTranslate
		if len(dto.Move) != 3 {
			return nil, zerr.Wrap(domain.ErrCorruptArtifact, "malformed translation")
		}
		node.move = vec3(dto.Move)
	case "rotate_z":
		node.kind = opRotateZ
		node.angle = dto.Angle
	case "rotate_axis":
		node.kind = opRotateAxis
		if len(dto.AxisStart) != 3 || len(dto.AxisEnd) != 3 {
			return nil, zerr.Wrap(domain.ErrCorruptArtifact, "malformed rotation axis")
		}
		node.axisStart = vec3(dto.AxisStart)
		node.axisEnd = vec3(dto.AxisEnd)
		node.angle = dto.Angle
	case "mirror":
		node.kind = opMirror
		plane, ok := domain.PlaneFromString(dto.Plane)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, "unknown plane"), "plane", dto.Plane)
		}
		node.mirror = plane
	case "scale":
		node.kind = opScale
		node.factor = dto.Factor
	case "split":
		node.kind = opSplit
		node.z = dto.Z
		node.keepBottom = dto.KeepBottom
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, "unknown node kind"), "kind", dto.Kind)
	}
	return node.finish(), nil
}

func vec3(v []float64) domain.Vec3 {
	return domain.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
