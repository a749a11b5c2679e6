// Package main 运维引导命令：数据库迁移、目录查看与事件流跟踪
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"eduforge-api/internal/config"
	"eduforge-api/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "bootstrap",
	Short:         "EduForge operational commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig 供需要外部依赖的子命令作为 PersistentPreRunE 使用
func loadConfig(*cobra.Command, []string) error {
	_ = godotenv.Load()

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(
		c.Observability.Logging.Level,
		c.Observability.Logging.Format,
		c.Observability.Logging.Output,
	)
	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
