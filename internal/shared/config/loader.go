package config

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// 环境变量覆盖：HEGE_REGION_STORE=mongodb 覆盖 region.store。
const envPrefix = "HEGE"

var (
	current atomic.Pointer[Config]

	hooksMu sync.Mutex
	hooks   []func(*Config)
)

// Current 返回最近一次加载成功的配置；未加载时返回默认值。
func Current() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	c := defaults()
	return &c
}

// OnChange 注册配置热更新回调（例如动态调整日志级别）。
func OnChange(fn func(*Config)) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = append(hooks, fn)
}

func load(configPath string, watch bool) (*Config, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	conf, err := decode(v)
	if err != nil {
		return nil, err
	}
	current.Store(conf)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			next, err := decode(v)
			if err != nil {
				// 保留旧配置，坏文件不影响运行中的服务
				return
			}
			current.Store(next)
			hooksMu.Lock()
			fns := append([]func(*Config){}, hooks...)
			hooksMu.Unlock()
			for _, fn := range fns {
				fn(next)
			}
		})
		v.WatchConfig()
	}
	return conf, nil
}

func decode(v *viper.Viper) (*Config, error) {
	conf := defaults()
	err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("viper unmarshal config: %w", err)
	}
	return &conf, nil
}

func defaults() Config {
	return Config{
		HTTPServer: HTTPServerConfig{Port: 8080},
		Region: RegionConfig{
			Store:    "memory",
			DataDir:  "configs/regions",
			CacheTTL: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{Database: "hegemonie", ConnectTimeoutS: 3},
		MySQL:   MySQLConfig{Port: 3306, MaxIdle: 2, MaxConn: 10},
		Client: ClientConfig{
			BaseURL: "http://127.0.0.1:8080",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", MaxSize: 100},
	}
}
