package tts

import "context"

// Engine 定义语音合成后端接口。
type Engine interface {
	// Synthesize 用指定语音把文本合成为编码后的 MP3 音频字节。
	// 返回的音频必须非空；后端异常或被 ctx 取消时返回错误。
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
