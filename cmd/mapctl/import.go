package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/region/infra/persistence"
	"Hegemonie/internal/shared/config"
	"Hegemonie/internal/shared/logs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type importOptions struct {
	file string
	name string
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "把 JSON 地图文件写入配置的存储（region.store）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "地图文件 {cells, roads, cities}")
	f.StringVar(&opts.name, "name", "", "地图名称，默认取文件名")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, opts *importOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := opts.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(opts.file), filepath.Ext(opts.file))
	}
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return err
	}
	region, err := domain.DecodeRegion(name, raw)
	if err != nil {
		return err
	}

	store, closeStore, err := persistence.Open(ctx, config.Current(), baseDir())
	if err != nil {
		return err
	}
	defer closeStore()

	if m, ok := store.(persistence.Migrator); ok {
		if err := m.AutoMigrate(ctx); err != nil {
			return err
		}
	}
	if err := store.SaveRegion(ctx, region); err != nil {
		return err
	}
	logs.Info("region imported",
		zap.String("region", name),
		zap.String("store", config.Current().Region.Store),
		zap.Int("cells", len(region.Map.Cells)),
		zap.Int("roads", len(region.Map.Roads)),
		zap.Int("cities", len(region.Cities)),
	)
	return nil
}
