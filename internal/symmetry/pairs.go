package symmetry

// PairTotals returns, for every composite irrep c, the number of ordered
// pairs (p, q) with p drawn from irrep Gp of dims p and q from irrep Gq of
// dims q such that Gp ^ Gq == c. This is the composite row or column count
// (rowtot/coltot) of a pair index.
func PairTotals(g Group, p, q Dims) []int {
	tot := make([]int, g.NumIrreps)
	for c := 0; c < g.NumIrreps; c++ {
		for gp := 0; gp < g.NumIrreps; gp++ {
			tot[c] += p[gp] * q[g.Product(c, gp)]
		}
	}
	return tot
}

// OffsetTable builds the sub-block offset lookup for a pair index laid out in
// Gc order.
//
// For a tensor with overall irrep myIrrep, a row of irrep h has columns of
// irrep h^myIrrep. off[h][Gc] is the column at which the sub-block whose first
// column orbital has irrep Gc (and whose second has Gd = (h^myIrrep)^Gc)
// begins; that sub-block is p[Gc] x q[Gd] wide, stored row-major.
func OffsetTable(g Group, p, q Dims, myIrrep int) [][]int {
	off := make([][]int, g.NumIrreps)
	for h := 0; h < g.NumIrreps; h++ {
		col := g.Product(h, myIrrep)
		off[h] = make([]int, g.NumIrreps)
		offset := 0
		for gc := 0; gc < g.NumIrreps; gc++ {
			off[h][gc] = offset
			offset += p[gc] * q[g.Product(col, gc)]
		}
	}
	return off
}
