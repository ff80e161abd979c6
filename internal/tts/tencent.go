package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tcloudtts "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tts/v20190823"

	"github.com/iabetor/duotts/internal/logger"
)

// TencentEngine 使用腾讯云 TTS 合成语音，输出 MP3。
// 适用于中国大陆网络环境；voice 参数为数字音色 ID（VoiceType）。
type TencentEngine struct {
	client *tcloudtts.Client
	speed  float64
}

// TencentConfig 腾讯云 TTS 引擎配置。
type TencentConfig struct {
	SecretID  string
	SecretKey string
	Region    string
	Speed     float64
}

// NewTencentEngine 创建腾讯云 TTS 引擎。
func NewTencentEngine(cfg TencentConfig) (*TencentEngine, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS 需要 SecretID 和 SecretKey")
	}
	if cfg.Region == "" {
		cfg.Region = "ap-guangzhou"
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}

	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tts.tencentcloudapi.com"

	client, err := tcloudtts.NewClient(credential, cfg.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("[tts] 创建腾讯云 TTS 客户端失败: %w", err)
	}

	logger.Infof("[tts] 腾讯云 TTS 引擎已初始化 (region=%s)", cfg.Region)
	return &TencentEngine{client: client, speed: cfg.Speed}, nil
}

// Synthesize 将文本合成为 MP3 音频字节。
// voice 必须是数字形式的腾讯云音色 ID，如 "1001"。
func (e *TencentEngine) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	voiceType, err := strconv.ParseInt(voice, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("[tts] 腾讯云音色 ID 必须是数字，得到 %q: %w", voice, err)
	}

	logger.Debugf("[tts] 腾讯云 TTS: 正在合成 %d 个字符，音色=%d", len([]rune(text)), voiceType)

	request := tcloudtts.NewTextToVoiceRequest()
	request.Text = common.StringPtr(text)
	request.SessionId = common.StringPtr(uuid.NewString())
	request.VoiceType = common.Int64Ptr(voiceType)
	request.Codec = common.StringPtr("mp3")
	request.Speed = common.Float64Ptr(e.speed)
	request.Volume = common.Float64Ptr(5.0)

	response, err := e.client.TextToVoiceWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS 合成失败: %w", err)
	}
	if response.Response == nil || response.Response.Audio == nil {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS: 未返回音频数据")
	}

	mp3Data, err := base64.StdEncoding.DecodeString(*response.Response.Audio)
	if err != nil {
		return nil, fmt.Errorf("[tts] Base64 解码失败: %w", err)
	}

	logger.Debugf("[tts] 腾讯云 TTS: 收到 %d 字节 MP3 数据", len(mp3Data))
	return mp3Data, nil
}
