package config

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Region     RegionConfig     `yaml:"region" mapstructure:"region"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Client     ClientConfig     `yaml:"client" mapstructure:"client"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// 地图存储：memory 从 data_dir 读取 <name>.json，mongodb/mysql 使用对应连接配置。
type RegionConfig struct {
	Store    string        `yaml:"store" mapstructure:"store"`
	DataDir  string        `yaml:"data_dir" mapstructure:"data_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 表示不缓存
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

// mapctl 访问 mapd 时使用。
type ClientConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// Addr 返回监听地址，host 为空时监听所有网卡。
func (c HTTPServerConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return host + ":" + itoa(c.Port)
}
