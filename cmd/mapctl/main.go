package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"Hegemonie/internal/shared/config"
	"Hegemonie/internal/shared/logs"
	"Hegemonie/modules/kit/errx"

	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "mapctl",
		Short:         "地图渲染、导入与编辑工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			return logs.Init("mapctl", conf.Log)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logs.Sync()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径，默认向上查找 configs/conf.yml")

	root.AddCommand(newRenderCmd(), newImportCmd(), newNormalizeCmd(), newSplitCmd(), newDotCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine 带上错误码，方便脚本按码判断失败原因。
func errorLine(err error) string {
	if code := errx.CodeOf(err); code != "" {
		return fmt.Sprintf("mapctl: [%s] %v", code, err)
	}
	return "mapctl: " + err.Error()
}

// loadConfig 未显式指定 --config 且找不到配置文件时使用默认值。
func loadConfig() (*config.Config, error) {
	conf, err := config.Read(cfgPath)
	if err != nil {
		if cfgPath != "" {
			return nil, err
		}
		return config.Current(), nil
	}
	return conf, nil
}

// baseDir 是解析相对 data_dir 的基准：配置文件所在 configs/ 的上一级，没有配置文件时为当前目录。
func baseDir() string {
	path, err := config.Locate(cfgPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(filepath.Dir(path))
}
