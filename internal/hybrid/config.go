package hybrid

import (
	"fmt"

	"timeTable/internal/ga"
	"timeTable/internal/sa"
	"timeTable/internal/timetable"
)

type Config struct {
	// Seed — сид генератора случайных чисел; 0 — недетерминированный запуск.
	Seed int64 `json:"seed"`
	// Chains — количество параллельных цепочек дожигания по элитным
	// семенам; значения <= 1 означают одну цепочку от лучшего решения GA.
	Chains int `json:"chains"`

	GA      ga.Config         `json:"ga"`
	SA      sa.Config         `json:"sa"`
	Weights timetable.Weights `json:"weights"`
}

func DefaultConfig() Config {
	return Config{
		Seed:    0,
		Chains:  1,
		GA:      ga.DefaultConfig(),
		SA:      sa.DefaultConfig(),
		Weights: timetable.DefaultWeights(),
	}
}

func (c Config) Validate() error {
	if c.Chains < 0 {
		return fmt.Errorf(
			"число цепочек дожигания должно быть >= 0 (получено %d)",
			c.Chains,
		)
	}
	if err := c.GA.Validate(); err != nil {
		return fmt.Errorf("конфигурация генетического алгоритма: %w", err)
	}
	if err := c.SA.Validate(); err != nil {
		return fmt.Errorf("конфигурация имитации отжига: %w", err)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("веса целевой функции: %w", err)
	}
	return nil
}
