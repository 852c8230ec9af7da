package ts

import "fmt"

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	// NeighborhoodResample — замена размещения одного занятия новым
	// случайным значением.
	NeighborhoodResample Neighborhood = "resample"
	// NeighborhoodSwap — обмен размещениями двух занятий.
	NeighborhoodSwap Neighborhood = "swap"
)

type Config struct {
	Iterations           int `json:"iterations"`
	IterationsPerSession int `json:"iterations_per_session"`

	TabuTenure     int `json:"tabu_tenure"`
	TabuTenureRand int `json:"tabu_tenure_rand"`

	NeighborsPerIter int `json:"neighbors_per_iter"`

	Neighborhood Neighborhood `json:"neighborhood"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:           0,
		IterationsPerSession: 250,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 60,
		Neighborhood:     NeighborhoodResample,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerSession <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerSession > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodResample, NeighborhoodSwap:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
