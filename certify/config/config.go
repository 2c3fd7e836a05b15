package config

import (
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/spf13/viper"
)

// Config 可选配置文件，为缺省参数兜底
// 优先级：命令行参数 > 配置文件 > 内置缺省值
type Config struct {
	v *viper.Viper
}

// Load 从缺省路径读取yaml配置
// 配置文件不存在不算错误，用内置缺省值
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(consts.DefaultConfigPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetDefault("k", consts.DefaultK)
	v.SetDefault("l", consts.DefaultL)
	v.SetDefault("threads", consts.DefaultThreads)
	v.SetDefault("bins", consts.DefaultBins)
	v.SetDefault("output_dir", "")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}
	return &Config{v: v}, nil
}

func (c *Config) K() uint32 {
	return c.v.GetUint32("k")
}

func (c *Config) L() uint32 {
	return c.v.GetUint32("l")
}

func (c *Config) Threads() int {
	return c.v.GetInt("threads")
}

func (c *Config) Bins() int {
	return c.v.GetInt("bins")
}

// OutputDir 为空时产物落在当前目录
func (c *Config) OutputDir() string {
	return c.v.GetString("output_dir")
}
