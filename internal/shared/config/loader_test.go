package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConf = `
httpserver:
  host: 127.0.0.1
  port: 9090
region:
  store: mongodb
  cache_ttl: 2m
client:
  timeout: 1500ms
log:
  level: debug
`

func writeConf(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "configs", "conf.yml")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_解析duration并保留默认值(t *testing.T) {
	p := writeConf(t, t.TempDir(), sampleConf)

	conf, err := load(p, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.HTTPServer.Addr() != "127.0.0.1:9090" {
		t.Fatalf("addr 不符合预期: %s", conf.HTTPServer.Addr())
	}
	if conf.Region.Store != "mongodb" || conf.Region.CacheTTL != 2*time.Minute {
		t.Fatalf("region 配置不符合预期: %+v", conf.Region)
	}
	if conf.Region.DataDir != "configs/regions" {
		t.Fatalf("未配置的 data_dir 应保留默认值, got=%q", conf.Region.DataDir)
	}
	if conf.Client.Timeout != 1500*time.Millisecond {
		t.Fatalf("client.timeout 不符合预期: %v", conf.Client.Timeout)
	}
	if Current().Log.Level != "debug" {
		t.Fatalf("Current() 应返回最近一次加载的配置")
	}
}

func TestLoad_环境变量覆盖配置(t *testing.T) {
	p := writeConf(t, t.TempDir(), sampleConf)
	t.Setenv("HEGE_REGION_STORE", "mysql")

	conf, err := load(p, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Region.Store != "mysql" {
		t.Fatalf("期望环境变量覆盖 region.store, got=%q", conf.Region.Store)
	}
}

func TestFindConfigUpward_从子目录向上查找(t *testing.T) {
	root := t.TempDir()
	want := writeConf(t, root, sampleConf)
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := findConfigUpward(sub)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.yml"), false); err == nil {
		t.Fatalf("期望返回错误")
	}
}

func TestHTTPServerConfig_Addr_默认监听所有网卡(t *testing.T) {
	if got := (HTTPServerConfig{Port: 80}).Addr(); got != "0.0.0.0:80" {
		t.Fatalf("got=%s", got)
	}
}
