package sa

import "fmt"

type Config struct {
	// InitialTemp и FinalTemp — начальная температура и температурный пол.
	InitialTemp float64 `json:"initial_temp"`
	FinalTemp   float64 `json:"final_temp"`
	// Alpha — мультипликативный коэффициент охлаждения.
	Alpha float64 `json:"alpha"`
	// IterationsPerTemp — число шагов на одном температурном уровне.
	IterationsPerTemp int `json:"iterations_per_temp"`
	// Budget — общий лимит итераций; 0 означает отсутствие шагов
	// (дожигание отключено), верхней границей остаётся температурный пол.
	Budget int `json:"budget"`
}

func DefaultConfig() Config {
	return Config{
		InitialTemp:       1000.0,
		FinalTemp:         0.1,
		Alpha:             0.95,
		IterationsPerTemp: 100,
		Budget:            100_000,
	}
}

func (c Config) Validate() error {
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	if c.IterationsPerTemp <= 0 {
		return fmt.Errorf(
			"число итераций на температурный уровень должно быть > 0 (получено %d)",
			c.IterationsPerTemp,
		)
	}
	if c.Budget < 0 {
		return fmt.Errorf(
			"лимит итераций должен быть >= 0 (получено %d)",
			c.Budget,
		)
	}
	return nil
}
