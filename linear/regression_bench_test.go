package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData returns a design with an intercept column and a noisy
// linear response.
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, 1)
		for j := 1; j <= cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 1; j <= cols; j++ {
			sum += X.At(i, j) * float64(j) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}
	return X, y
}

func BenchmarkLeastSquaresFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Medium_1000x10", 1000, 10},
		{"Large_10000x20", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ls := NewLeastSquares()
				if err := ls.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLeastSquaresFitRidge(b *testing.B) {
	X, y := createBenchmarkData(1000, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ls := NewLeastSquares(WithRidge(0.5))
		if err := ls.Fit(X, y); err != nil {
			b.Fatal(err)
		}
	}
}
