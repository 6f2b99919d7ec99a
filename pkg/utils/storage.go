package utils

import (
	"bytes"
	"fmt"
)

// parseCmdline 从 /proc/self/cmdline 内容中取出进程名
// Android 上进程名就是应用包名；参数之间以 NUL 分隔，只取第一段
func parseCmdline(data []byte) (string, error) {
	name, _, _ := bytes.Cut(data, []byte{0})
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return "", fmt.Errorf("got empty process name from /proc/self/cmdline")
	}
	return string(name), nil
}
