package services

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// maxDim returns the longest vector length across the given sets.
func maxDim(sets ...[][]float32) int {
	dim := 0
	for _, vectors := range sets {
		for _, v := range vectors {
			if len(v) > dim {
				dim = len(v)
			}
		}
	}
	return dim
}

// normalizedRows copies vectors into a len(vectors) x dim matrix with each row
// scaled to unit L2 length. Nil and zero vectors stay zero rows; shorter
// vectors are zero padded and longer ones truncated.
func normalizedRows(vectors [][]float32, dim int) *mat.Dense {
	if len(vectors) == 0 || dim == 0 {
		return nil
	}

	m := mat.NewDense(len(vectors), dim, nil)
	row := make([]float64, dim)
	for i, v := range vectors {
		for j := range row {
			row[j] = 0
		}
		for j := 0; j < len(v) && j < dim; j++ {
			row[j] = float64(v[j])
		}
		if n := floats.Norm(row, 2); n > 0 {
			floats.Scale(1/n, row)
		}
		m.SetRow(i, row)
	}
	return m
}

// cosineMatrix returns the similarity matrix a x bᵀ of two unit-row matrices.
func cosineMatrix(a, b *mat.Dense) *mat.Dense {
	var sims mat.Dense
	sims.Mul(a, b.T())
	return &sims
}

// centroid returns the mean of the given rows.
func centroid(m *mat.Dense, rows []int) []float64 {
	_, dim := m.Dims()
	c := make([]float64, dim)
	for _, i := range rows {
		floats.Add(c, m.RawRowView(i))
	}
	if len(rows) > 0 {
		floats.Scale(1/float64(len(rows)), c)
	}
	return c
}

// cosine returns the cosine similarity of two vectors, 0 when either is zero.
func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// euclidean returns the L2 distance between two rows.
func euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}
