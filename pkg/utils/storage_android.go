//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 上的设置目录存在并可写
// gdata 把数据放在 /data/data/{package}/{appName} 下，但不会预先创建该目录，
// 所以要在 gdata.Open 之前调用。
func EnsureStorageDir(appName string) error {
	dir, err := storageDir(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// GetStoragePath 返回设置目录（无法识别包名时返回空字符串）
func GetStoragePath(appName string) string {
	dir, err := storageDir(appName)
	if err != nil {
		return ""
	}
	return dir
}

func storageDir(appName string) (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}
	pkg, err := parseCmdline(data)
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}
	return filepath.Join("/data/data", pkg, appName), nil
}
