package ga

import "fmt"

type Config struct {
	Population     int     `json:"population"`
	Generations    int     `json:"generations"`
	Elite          int     `json:"elite"`
	TournamentSize int     `json:"tournament_size"`
	CrossoverRate  float64 `json:"crossover_rate"`
	MutationRate   float64 `json:"mutation_rate"`

	// Patience — число поколений без улучшения лучшего значения,
	// после которого поиск останавливается; 0 — плато не отслеживается.
	Patience int `json:"patience"`

	// Workers — число горутин для параллельной оценки потомков;
	// значения <= 1 означают последовательную оценку.
	Workers int `json:"workers"`
}

func (c Config) Validate() error {
	if c.Population <= 1 {
		return fmt.Errorf(
			"размер популяции должен быть > 1 (получено %d)",
			c.Population,
		)
	}
	if c.Generations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.Generations,
		)
	}
	if c.Elite < 0 || c.Elite >= c.Population {
		return fmt.Errorf(
			"число элитных особей должно быть в диапазоне [0, population) (получено %d)",
			c.Elite,
		)
	}
	if c.TournamentSize <= 0 {
		return fmt.Errorf(
			"размер турнира должен быть > 0 (получено %d)",
			c.TournamentSize,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationRate,
		)
	}
	if c.Patience < 0 {
		return fmt.Errorf(
			"терпение плато должно быть >= 0 (получено %d)",
			c.Patience,
		)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Population:     100,
		Generations:    300,
		Elite:          10,
		TournamentSize: 5,
		CrossoverRate:  0.80,
		MutationRate:   0.15,
		Patience:       0,
		Workers:        1,
	}
}
