package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iabetor/duotts/internal/audio"
	"github.com/iabetor/duotts/internal/logger"
	"github.com/iabetor/duotts/internal/text"
	"github.com/iabetor/duotts/internal/tts"
)

// Artifact 一个文本段合成出的音频产物。
// Size 恒大于零：零字节产物在合成阶段就会按失败处理。
type Artifact struct {
	Seg  text.Segment
	Path string
	Size int64
}

// synthesizer 把单个文本段交给后端合成并落盘。
type synthesizer struct {
	engine  tts.Engine
	cache   *audio.SpeechCache
	timeout time.Duration
}

// synthesize 合成一个文本段，把 MP3 写入 path 并返回产物描述。
// 超时、后端错误和零字节产物分别归类到对应的错误类别。
func (s *synthesizer) synthesize(ctx context.Context, seg text.Segment, voice, path string) (Artifact, error) {
	trimmed := strings.TrimSpace(seg.Text)
	if trimmed == "" {
		return Artifact{}, fmt.Errorf("%w (chunk=%d line=%d index=%d)",
			ErrEmptyInput, seg.Chunk, seg.Line, seg.Index)
	}

	key := audio.CacheKey(voice, trimmed)
	data, hit := s.cache.Lookup(key)
	if hit {
		logger.Debugf("[pipeline] 缓存命中: %d_%d_%d (%d 字节)",
			seg.Chunk, seg.Line, seg.Index, len(data))
	} else {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		var err error
		data, err = s.engine.Synthesize(callCtx, trimmed, voice)
		if err != nil {
			// 父 ctx 被取消说明整次运行已在中止，原样上抛，不掩盖首个错误
			if ctx.Err() != nil {
				return Artifact{}, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return Artifact{}, fmt.Errorf("%w (%.0fs): %q", ErrSynthesisTimeout,
					s.timeout.Seconds(), preview(trimmed))
			}
			return Artifact{}, fmt.Errorf("%w: %v", ErrSynthesisBackend, err)
		}
		if len(data) == 0 {
			return Artifact{}, fmt.Errorf("%w: %q", ErrEmptySynthesis, preview(trimmed))
		}
		if dur, perr := audio.Probe(data); perr != nil {
			logger.Warnf("[pipeline] 段 %d_%d_%d 的音频校验失败: %v",
				seg.Chunk, seg.Line, seg.Index, perr)
		} else {
			logger.Debugf("[pipeline] 段 %d_%d_%d 时长约 %s",
				seg.Chunk, seg.Line, seg.Index, dur.Round(time.Millisecond))
		}
		s.cache.Store(key, voice, trimmed, data)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("写入音频文件失败: %w", err)
	}

	logger.Debugf("[pipeline] 已合成: %d_%d_%d lang=%s %d 字节",
		seg.Chunk, seg.Line, seg.Index, seg.Lang, len(data))
	return Artifact{Seg: seg, Path: path, Size: int64(len(data))}, nil
}

// preview 截取文本开头用于日志和错误信息。
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= 50 {
		return s
	}
	return string(runes[:50]) + "..."
}
