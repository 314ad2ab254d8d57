package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/infra/persistence"
	"Hegemonie/internal/region/interfaces"
	"Hegemonie/internal/shared/config"
	"Hegemonie/internal/shared/logs"
	transporthttp "Hegemonie/internal/shared/transport/http"
	"Hegemonie/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	path, err := config.Locate(*cfgPath)
	if err != nil {
		panic(err)
	}
	conf, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("mapd", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	config.OnChange(func(next *config.Config) {
		logs.SetLevel(next.Log.Level)
		logs.Info("配置已重新加载", zap.String("log_level", next.Log.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// configs/conf.yml 的上一级目录作为相对路径的基准
	baseDir := filepath.Dir(filepath.Dir(path))
	store, closeStore, err := persistence.Open(ctx, conf, baseDir)
	if err != nil {
		logs.Fatal("open region store failed", zap.Error(err))
	}
	defer closeStore()

	baseLogger := logx.NewZapLogger(logs.Logger())
	regions := app.NewRegionService(store, baseLogger.Named("region"), conf.Region.CacheTTL)

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := transporthttp.NewHttpServer(conf.HTTPServer.Addr(), nil, baseLogger.Named("http"))
	httpServer.Register(
		interfaces.New(regions, baseLogger.Named("map")),
	)

	errCh := make(chan error, 1)
	go func() {
		logs.Info("mapd listening", zap.String("addr", conf.HTTPServer.Addr()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("mapd server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
