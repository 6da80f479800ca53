package halftrans

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/symtensor/internal/dpd"
	"github.com/born-ml/symtensor/internal/storage"
	"github.com/born-ml/symtensor/internal/symmetry"
)

// fixture describes a pair of MO and SO tensors sharing row structure.
type fixture struct {
	g      symmetry.Group
	mopi   symmetry.Dims
	sopi   symmetry.Dims
	my     int
	rowtot []int
	tables Tables
}

func newFixture(nirreps int, mopi, sopi symmetry.Dims, my int, rowtot []int) fixture {
	g := symmetry.Group{NumIrreps: nirreps}
	return fixture{
		g:      g,
		mopi:   mopi,
		sopi:   sopi,
		my:     my,
		rowtot: rowtot,
		tables: NewTables(g, mopi, sopi, my),
	}
}

// c2v mimics a small molecule in C2v: four irreps with uneven dimensions.
func c2v(my int) fixture {
	return newFixture(4, symmetry.Dims{3, 1, 2, 1}, symmetry.Dims{5, 2, 3, 2}, my, []int{4, 2, 3, 1})
}

func (f fixture) moParams(name string) dpd.Params {
	return dpd.Params{Name: name, NumIrreps: f.g.NumIrreps, RowTot: f.rowtot, ColTot: f.tables.MOColTot()}
}

func (f fixture) soParams(name string) dpd.Params {
	return dpd.Params{Name: name, NumIrreps: f.g.NumIrreps, RowTot: f.rowtot, ColTot: f.tables.SOColTot()}
}

// inCore builds an in-core buffer with no store.
func inCore(t *testing.T, p dpd.Params, my int) *dpd.Buffer {
	t.Helper()
	b, err := dpd.NewBuffer(p, my, nil, dpd.WithInCore())
	require.NoError(t, err)
	return b
}

// outOfCore builds a buffer backed by a fresh memory store.
func outOfCore(t *testing.T, p dpd.Params, my int) (*dpd.Buffer, *storage.MemoryStore) {
	t.Helper()
	s, err := storage.NewMemoryStore(p.Layout(p.Name, my))
	require.NoError(t, err)
	b, err := dpd.NewBuffer(p, my, s)
	require.NoError(t, err)
	return b, s
}

func fillRandom(rng *rand.Rand, b *dpd.Buffer) {
	for h := 0; h < b.NumIrreps(); h++ {
		m := b.Matrix(h)
		for i := range m.Data {
			m.Data[i] = 2*rng.Float64() - 1
		}
	}
}

// snapshot copies every in-core irrep matrix of b.
func snapshot(b *dpd.Buffer) [][]float64 {
	out := make([][]float64, b.NumIrreps())
	for h := range out {
		out[h] = append([]float64(nil), b.Matrix(h).Data...)
	}
	return out
}

func orthonormal(t *testing.T, seed int64, f fixture) *Matrix {
	t.Helper()
	c, err := RandomOrthonormal(rand.New(rand.NewSource(seed)), f.sopi, f.mopi)
	require.NoError(t, err)
	return c
}

// referenceMOToSO computes alpha * C V C^T + beta * S element by element.
func referenceMOToSO(f fixture, c *Matrix, v, s [][]float64, alpha, beta float64) [][]float64 {
	out := make([][]float64, len(s))
	for h := range s {
		out[h] = append([]float64(nil), s[h]...)
		colIrrep := f.g.Product(h, f.my)
		moCols := f.tables.MOColTot()[colIrrep]
		soCols := f.tables.SOColTot()[colIrrep]
		for ij := 0; ij < f.rowtot[h]; ij++ {
			for gc := 0; gc < f.g.NumIrreps; gc++ {
				gd := f.g.Product(colIrrep, gc)
				if f.mopi[gc] == 0 || f.mopi[gd] == 0 || f.sopi[gc] == 0 || f.sopi[gd] == 0 {
					continue
				}
				cd, pq := f.tables.MORow[h][gc], f.tables.SORow[h][gc]
				for p := 0; p < f.sopi[gc]; p++ {
					for q := 0; q < f.sopi[gd]; q++ {
						var sum float64
						for a := 0; a < f.mopi[gc]; a++ {
							for b := 0; b < f.mopi[gd]; b++ {
								sum += c.Blocks[gc].At(p, a) * c.Blocks[gd].At(q, b) *
									v[h][ij*moCols+cd+a*f.mopi[gd]+b]
							}
						}
						idx := ij*soCols + pq + p*f.sopi[gd] + q
						if beta == 0 {
							out[h][idx] = alpha * sum
						} else {
							out[h][idx] = alpha*sum + beta*out[h][idx]
						}
					}
				}
			}
		}
	}
	return out
}

func maxAbsDiff(a, b [][]float64) float64 {
	var m float64
	for h := range a {
		for i := range a[h] {
			m = math.Max(m, math.Abs(a[h][i]-b[h][i]))
		}
	}
	return m
}
