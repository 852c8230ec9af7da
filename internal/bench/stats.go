package bench

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats — сводка по серии запусков: лучшее (минимальное) значение,
// среднее и выборочное стандартное отклонение.
type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

func Calc(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}
	s.Best = floats.Min(values)
	s.Mean = stat.Mean(values, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}
