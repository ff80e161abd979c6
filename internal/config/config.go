package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 DuoTTS 的顶层配置结构。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	TTS       TTSConfig       `yaml:"tts"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Voices    VoiceTable      `yaml:"voices"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TTSConfig 语音合成后端配置。
type TTSConfig struct {
	Engine  string        `yaml:"engine"` // edge 或 tencent
	Tencent TencentConfig `yaml:"tencent"`
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string  `yaml:"secret_id"`
	SecretKey string  `yaml:"secret_key"`
	Region    string  `yaml:"region"`
	Speed     float64 `yaml:"speed"`
}

// PipelineConfig 文本切分与并发调度配置。
type PipelineConfig struct {
	// MaxSegmentLength 单个合成段的最大长度（字符数）。
	MaxSegmentLength int `yaml:"max_segment_length"`
	// MinSegmentLength 英文段的最小长度，纯数字段不受此限制。
	MinSegmentLength int `yaml:"min_segment_length"`
	// MaxChunkLength 顶层分块的最大长度，超长输入先按句子边界切块。
	MaxChunkLength int `yaml:"max_chunk_length"`
	// NumberContextWindow 判断数字语境时向前/向后查看的字符数。
	NumberContextWindow int `yaml:"number_context_window"`
	// MaxConcurrency 同时进行的合成请求数上限。
	MaxConcurrency int `yaml:"max_concurrency"`
	// SynthesisTimeout 单段合成超时时间（秒）。
	SynthesisTimeout int `yaml:"synthesis_timeout"`
	// AllowPartial 为 true 时单段失败不中止整次请求，
	// 只要至少产出一段音频即返回成功。默认关闭（整体失败）。
	AllowPartial bool `yaml:"allow_partial"`
}

// VoicePair 某个音色档位下中英文各自的语音 ID。
type VoicePair struct {
	EN string `yaml:"en"`
	ZH string `yaml:"zh"`
}

// VoiceTable 按档位名（male/female）索引的语音表。
type VoiceTable map[string]VoicePair

// WorkspaceConfig 临时工作目录配置。
type WorkspaceConfig struct {
	// BaseDir 工作目录的父目录，为空则使用系统临时目录。
	BaseDir string `yaml:"base_dir"`
}

// CacheConfig 合成结果缓存配置。
type CacheConfig struct {
	Dir       string `yaml:"dir"`
	MaxSizeMB int64  `yaml:"max_size_mb"` // 0 表示禁用缓存
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${DUOTTS_TENCENT_SECRET_KEY}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回全部使用默认值的配置，便于测试和嵌入使用。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5001"
	}
	if cfg.TTS.Engine == "" {
		cfg.TTS.Engine = "edge"
	}
	if cfg.TTS.Tencent.Region == "" {
		cfg.TTS.Tencent.Region = "ap-guangzhou"
	}
	if cfg.TTS.Tencent.Speed == 0 {
		cfg.TTS.Tencent.Speed = 1.0
	}
	if cfg.Pipeline.MaxSegmentLength == 0 {
		cfg.Pipeline.MaxSegmentLength = 1000
	}
	if cfg.Pipeline.MinSegmentLength == 0 {
		cfg.Pipeline.MinSegmentLength = 2
	}
	if cfg.Pipeline.MaxChunkLength == 0 {
		cfg.Pipeline.MaxChunkLength = 4000
	}
	if cfg.Pipeline.NumberContextWindow == 0 {
		cfg.Pipeline.NumberContextWindow = 5
	}
	if cfg.Pipeline.MaxConcurrency == 0 {
		cfg.Pipeline.MaxConcurrency = 4
	}
	if cfg.Pipeline.SynthesisTimeout == 0 {
		cfg.Pipeline.SynthesisTimeout = 30
	}
	if cfg.Voices == nil {
		cfg.Voices = VoiceTable{
			"male": {
				EN: "en-US-ChristopherNeural",
				ZH: "zh-CN-YunxiNeural",
			},
			"female": {
				EN: "en-US-JennyNeural",
				ZH: "zh-CN-XiaoxiaoNeural",
			},
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// 去除环境变量展开后常见的两端空白
	cfg.TTS.Tencent.SecretID = strings.TrimSpace(cfg.TTS.Tencent.SecretID)
	cfg.TTS.Tencent.SecretKey = strings.TrimSpace(cfg.TTS.Tencent.SecretKey)
}

// validate 检查配置项之间的一致性。
func validate(cfg *Config) error {
	switch cfg.TTS.Engine {
	case "edge", "tencent":
	default:
		return fmt.Errorf("不支持的 TTS 引擎: %s", cfg.TTS.Engine)
	}
	for name, pair := range cfg.Voices {
		if pair.EN == "" || pair.ZH == "" {
			return fmt.Errorf("音色 %s 缺少 en 或 zh 语音 ID", name)
		}
	}
	if cfg.Pipeline.MinSegmentLength > cfg.Pipeline.MaxSegmentLength {
		return fmt.Errorf("min_segment_length (%d) 不能大于 max_segment_length (%d)",
			cfg.Pipeline.MinSegmentLength, cfg.Pipeline.MaxSegmentLength)
	}
	return nil
}
