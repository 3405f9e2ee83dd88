package export

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

// writeSTL streams a triangle soup as binary STL: an 80-byte header, a
// uint32 facet count, then 50 bytes per facet (normal, three vertices, an
// unused attribute word), all little-endian float32.
func writeSTL(w io.Writer, header string, mesh []domain.Triangle) error {
	bw := bufio.NewWriter(w)

	var head [80]byte
	copy(head[:], header)
	if _, err := bw.Write(head[:]); err != nil {
		return zerr.Wrap(err, "failed to write header")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(mesh))); err != nil {
		return zerr.Wrap(err, "failed to write facet count")
	}

	var facet [50]byte
	for _, t := range mesh {
		putVec(facet[0:], t.Normal().Normalize())
		putVec(facet[12:], t.A)
		putVec(facet[24:], t.B)
		putVec(facet[36:], t.C)
		facet[48], facet[49] = 0, 0
		if _, err := bw.Write(facet[:]); err != nil {
			return zerr.Wrap(err, "failed to write facet")
		}
	}
	return bw.Flush()
}

func putVec(dst []byte, v domain.Vec3) {
	binary.LittleEndian.PutUint32(dst[0:], floatBits(v.X))
	binary.LittleEndian.PutUint32(dst[4:], floatBits(v.Y))
	binary.LittleEndian.PutUint32(dst[8:], floatBits(v.Z))
}

func floatBits(v float64) uint32 {
	return math.Float32bits(float32(v))
}
