package persistence

import (
	"context"
	"fmt"
	"path/filepath"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/infra/persistence/memory"
	"Hegemonie/internal/region/infra/persistence/mongodb"
	"Hegemonie/internal/region/infra/persistence/mysql"
	"Hegemonie/internal/shared/config"
	"Hegemonie/internal/shared/infrastructure/db"
	mongox "Hegemonie/internal/shared/infrastructure/mongo"
	"Hegemonie/internal/shared/logs"

	"go.uber.org/zap"
)

const (
	StoreMemory  = "memory"
	StoreMongoDB = "mongodb"
	StoreMySQL   = "mysql"
)

// Store 同时支持读取和导入地图。
type Store interface {
	app.RegionRepo
	app.RegionWriter
}

// Migrator 由需要建表的存储实现。
type Migrator interface {
	AutoMigrate(ctx context.Context) error
}

// Open 按 region.store 打开地图存储；baseDir 用于解析相对的 data_dir。
// 返回的 closer 释放底层连接，总是非 nil。
func Open(ctx context.Context, conf *config.Config, baseDir string) (Store, func(), error) {
	nop := func() {}
	switch conf.Region.Store {
	case "", StoreMemory:
		dir := conf.Region.DataDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		logs.Info("region store", zap.String("store", StoreMemory), zap.String("data_dir", dir))
		return memory.NewRegionRepository(dir), nop, nil

	case StoreMongoDB:
		client, err := mongox.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nop, fmt.Errorf("open mongodb: %w", err)
		}
		closer := func() {
			_ = client.Disconnect(context.WithoutCancel(ctx))
		}
		return mongodb.NewRegionRepository(client.Database(conf.MongoDB.Database)), closer, nil

	case StoreMySQL:
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nop, fmt.Errorf("open mysql: %w", err)
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return mysql.NewRegionRepo(gdb), closer, nil

	default:
		return nil, nop, fmt.Errorf("unknown region store %q", conf.Region.Store)
	}
}
