package tts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/iabetor/duotts/internal/logger"
)

// EdgeEngine 使用微软 Edge TTS 合成语音，输出 MP3。
// 每次调用可指定不同语音，适合中英文分段使用各自的语音。
type EdgeEngine struct{}

// NewEdgeEngine 创建 Edge TTS 引擎。
func NewEdgeEngine() *EdgeEngine {
	return &EdgeEngine{}
}

// Synthesize 将文本合成为 MP3 音频字节。
func (e *EdgeEngine) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	logger.Debugf("[tts] edge-tts: 正在合成 %d 个字符，语音=%s", len([]rune(text)), voice)

	comm, err := edge.NewCommunicate(text, edge.WithVoice(voice))
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 创建实例失败: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 开始流式合成失败: %w", err)
	}

	// 从 channel 收集全部音频块；type=="audio" 的条目包含音频数据
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				mp3Data := buf.Bytes()
				if len(mp3Data) == 0 {
					return nil, fmt.Errorf("[tts] edge-tts: 未收到音频数据")
				}
				logger.Debugf("[tts] edge-tts: 收到 %d 字节 MP3 数据", len(mp3Data))
				return mp3Data, nil
			}
			if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
				if data, ok := msg["data"].([]byte); ok {
					buf.Write(data)
				}
			}
		}
	}
}
