package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iabetor/duotts/internal/audio"
	"github.com/iabetor/duotts/internal/config"
	"github.com/iabetor/duotts/internal/logger"
	"github.com/iabetor/duotts/internal/pipeline"
	"github.com/iabetor/duotts/internal/server"
	"github.com/iabetor/duotts/internal/tts"
	"github.com/iabetor/duotts/internal/workspace"
)

func main() {
	configPath := flag.String("config", "configs/duotts.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infof("[main] DuoTTS 启动中 (engine=%s, addr=%s)", cfg.TTS.Engine, cfg.Server.Addr)

	engine, err := newEngine(cfg)
	if err != nil {
		logger.Errorf("[main] 创建 TTS 引擎失败: %v", err)
		os.Exit(1)
	}

	ws, err := workspace.NewManager(cfg.Workspace.BaseDir)
	if err != nil {
		logger.Errorf("[main] 初始化工作目录失败: %v", err)
		os.Exit(1)
	}

	cache, err := audio.NewSpeechCache(cfg.Cache.Dir, cfg.Cache.MaxSizeMB)
	if err != nil {
		logger.Errorf("[main] 初始化合成缓存失败: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在关闭...", sig)
		cancel()
	}()

	orch := pipeline.New(cfg, engine, ws, cache)
	srv := server.New(cfg.Server.Addr, orch)
	if err := srv.Run(ctx); err != nil {
		logger.Errorf("[main] 服务运行出错: %v", err)
		os.Exit(1)
	}

	logger.Infof("[main] DuoTTS 已停止")
}

// newEngine 按配置选择合成后端。
func newEngine(cfg *config.Config) (tts.Engine, error) {
	switch cfg.TTS.Engine {
	case "edge":
		return tts.NewEdgeEngine(), nil
	case "tencent":
		return tts.NewTencentEngine(tts.TencentConfig{
			SecretID:  cfg.TTS.Tencent.SecretID,
			SecretKey: cfg.TTS.Tencent.SecretKey,
			Region:    cfg.TTS.Tencent.Region,
			Speed:     cfg.TTS.Tencent.Speed,
		})
	default:
		return nil, fmt.Errorf("不支持的 TTS 引擎: %s", cfg.TTS.Engine)
	}
}
