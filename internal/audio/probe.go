package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Probe 解码校验一段 MP3 数据并返回音频时长。
// 解码失败说明后端产出的不是有效 MP3。
func Probe(data []byte) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("MP3 解码失败: %w", err)
	}

	n, err := io.Copy(io.Discard, decoder)
	if err != nil {
		return 0, fmt.Errorf("读取 PCM 数据失败: %w", err)
	}

	// go-mp3 输出 16-bit 双声道 PCM，每帧 4 字节
	bytesPerSecond := int64(decoder.SampleRate()) * 4
	if bytesPerSecond == 0 {
		return 0, fmt.Errorf("MP3 采样率为 0")
	}
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond), nil
}
