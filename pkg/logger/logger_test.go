package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/burbuqebeqiraj/PlusAPI/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.LogConfig{Level: "verbose"})
	if err == nil {
		t.Error("无效日志级别应返回错误")
	}
}

func TestNewLogger_Stdout(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		lg, err := NewLogger(&config.LogConfig{Level: "debug", Format: format, Output: "stdout"})
		if err != nil {
			t.Fatalf("format=%s 初始化失败: %v", format, err)
		}
		if !lg.Core().Enabled(-1) {
			t.Errorf("format=%s 期望 debug 级别开启", format)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	lg, err := NewLogger(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	lg.Info("写入测试")
	_ = lg.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if len(data) == 0 {
		t.Error("期望日志文件有内容")
	}
}
