package main

import (
	"github.com/spf13/cobra"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/pkg/logger"
)

// NewRootCommand 创建 microblog 命令
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "microblog",
		Short:         "Microblog server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

// bootstrap 读取配置并初始化日志
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return nil, err
	}
	return cfg, nil
}
