package config

import (
	"testing"

	"github.com/Trinoooo/collatz_cert/consts"
)

// 没有配置文件时全部走内置缺省值
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.K() != consts.DefaultK {
		t.Error("expect default k, got", cfg.K())
	}
	if cfg.L() != consts.DefaultL {
		t.Error("expect default l, got", cfg.L())
	}
	if cfg.Threads() != consts.DefaultThreads {
		t.Error("expect default threads, got", cfg.Threads())
	}
	if cfg.Bins() != consts.DefaultBins {
		t.Error("expect default bins, got", cfg.Bins())
	}
	if cfg.OutputDir() != "" {
		t.Error("expect empty output dir, got", cfg.OutputDir())
	}
}
