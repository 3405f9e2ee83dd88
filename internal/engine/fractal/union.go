package fractal

import "github.com/nat-a-cyborg/octahedroflake/internal/core/ports"

// BalancedUnion combines solids as a pairwise tournament instead of a
// left fold. The result is geometrically identical; the expression depth
// drops from n-1 to ceil(log2(n)), which keeps deep-order trees shallow
// enough for the recursive kernel walks.
func BalancedUnion(solids ...ports.Solid) ports.Solid {
	switch len(solids) {
	case 0:
		return nil
	case 1:
		return solids[0]
	}

	round := make([]ports.Solid, len(solids))
	copy(round, solids)
	for len(round) > 1 {
		next := make([]ports.Solid, 0, (len(round)+1)/2)
		for i := 0; i+1 < len(round); i += 2 {
			next = append(next, round[i].Union(round[i+1]))
		}
		if len(round)%2 == 1 {
			next = append(next, round[len(round)-1])
		}
		round = next
	}
	return round[0]
}
