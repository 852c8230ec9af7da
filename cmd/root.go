package cmd

import (
	"github.com/spf13/cobra"

	"timeTable/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Оптимизатор учебного расписания (GA + SA)",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "путь к файлу конфигурации (yaml или json)")
}

// Execute запускает CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig возвращает конфигурацию из файла либо значения по умолчанию.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(cfgPath)
}
