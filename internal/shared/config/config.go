package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const defaultConfigRelPath = "configs/conf.yml"

// Load 定位并加载配置文件，之后文件变更会自动重新加载。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string) (*Config, error) {
	path, err := Locate(cfgName)
	if err != nil {
		return nil, err
	}
	return load(path, true)
}

// Read 与 Load 相同但不监听文件变更，命令行工具使用。
func Read(cfgName string) (*Config, error) {
	path, err := Locate(cfgName)
	if err != nil {
		return nil, err
	}
	return load(path, false)
}

// Locate 按 Load 的约定返回配置文件路径。
func Locate(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", defaultConfigRelPath, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
