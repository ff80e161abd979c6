package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iabetor/duotts/internal/audio"
	"github.com/iabetor/duotts/internal/config"
	"github.com/iabetor/duotts/internal/logger"
	"github.com/iabetor/duotts/internal/text"
	"github.com/iabetor/duotts/internal/tts"
	"github.com/iabetor/duotts/internal/workspace"
)

// Result 一次合成请求的最终产物。
type Result struct {
	Audio    []byte
	Segments int
}

// Orchestrator 驱动整条合成流水线：
// 分块 → 按行切段 → 受限并发合成 → 按原文顺序拼接。
type Orchestrator struct {
	engine       tts.Engine
	ws           *workspace.Manager
	cache        *audio.SpeechCache
	segmenter    *text.Segmenter
	voices       config.VoiceTable
	maxChunkLen  int
	concurrency  int
	timeout      time.Duration
	allowPartial bool
}

// New 创建流水线编排器。cache 可为 nil（等价于禁用缓存）。
func New(cfg *config.Config, engine tts.Engine, ws *workspace.Manager, cache *audio.SpeechCache) *Orchestrator {
	p := cfg.Pipeline
	return &Orchestrator{
		engine:       engine,
		ws:           ws,
		cache:        cache,
		segmenter:    text.NewSegmenter(p.MaxSegmentLength, p.MinSegmentLength, p.NumberContextWindow),
		voices:       cfg.Voices,
		maxChunkLen:  p.MaxChunkLength,
		concurrency:  p.MaxConcurrency,
		timeout:      time.Duration(p.SynthesisTimeout) * time.Second,
		allowPartial: p.AllowPartial,
	}
}

// Run 把整段输入文本合成为一个 MP3。
// 默认策略为整体失败：任一段合成失败即取消其余任务并返回首个错误；
// 配置 allow_partial 后单段失败只告警，至少产出一段音频即算成功。
// 无论成功失败，临时目录和其中的段文件都会在返回前清理。
func (o *Orchestrator) Run(ctx context.Context, input, gender string) (*Result, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: 文本为空", ErrInvalidInput)
	}
	voices, ok := o.voices[gender]
	if !ok {
		return nil, fmt.Errorf("%w: 未知的音色 %q", ErrInvalidInput, gender)
	}

	segments := o.collectSegments(input)
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	scope, err := o.ws.NewScope()
	if err != nil {
		return nil, err
	}
	defer scope.Release()

	session := uuid.NewString()
	logger.Infof("[pipeline] 开始合成: %d 段, 音色=%s, 并发=%d, 会话=%s",
		len(segments), gender, o.concurrency, session[:8])

	synth := &synthesizer{engine: o.engine, cache: o.cache, timeout: o.timeout}

	var mu sync.Mutex
	artifacts := make([]Artifact, 0, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, seg := range segments {
		g.Go(func() error {
			voice := voices.EN
			if seg.Lang == text.LangZH {
				voice = voices.ZH
			}
			name := fmt.Sprintf("segment_%d_%d_%d_%s.mp3", seg.Chunk, seg.Line, seg.Index, session)
			art, err := synth.synthesize(gctx, seg, voice, scope.Path(name))
			if err != nil {
				if o.allowPartial && gctx.Err() == nil {
					logger.Warnf("[pipeline] 段 %d_%d_%d 合成失败（宽松策略，跳过）: %v",
						seg.Chunk, seg.Line, seg.Index, err)
					return nil
				}
				return err
			}
			mu.Lock()
			artifacts = append(artifacts, art)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, ErrNoArtifacts
	}

	// 并发完成顺序不确定，按位置元组恢复原文阅读顺序后再拼接
	sort.Slice(artifacts, func(i, j int) bool {
		a, b := artifacts[i].Seg, artifacts[j].Seg
		if a.Chunk != b.Chunk {
			return a.Chunk < b.Chunk
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Index < b.Index
	})

	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
	}
	data, err := audio.MergeFiles(paths)
	if err != nil {
		if errors.Is(err, audio.ErrNoInput) {
			return nil, ErrEmptyAssembly
		}
		return nil, fmt.Errorf("拼接音频失败: %w", err)
	}

	if dur, perr := audio.Probe(data); perr == nil {
		logger.Infof("[pipeline] 合成完成: %d 段, %d 字节, 时长约 %s",
			len(artifacts), len(data), dur.Round(time.Millisecond))
	} else {
		logger.Infof("[pipeline] 合成完成: %d 段, %d 字节", len(artifacts), len(data))
	}
	return &Result{Audio: data, Segments: len(artifacts)}, nil
}

// collectSegments 分块、按行拆分并切段，返回带位置元组的完整段列表。
// 空行直接跳过；行号保持原始位置，保证产物命名和排序稳定。
func (o *Orchestrator) collectSegments(input string) []text.Segment {
	var segments []text.Segment
	for ci, chunk := range text.SplitChunks(input, o.maxChunkLen) {
		for li, line := range strings.Split(chunk, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			segments = append(segments, o.segmenter.Split(line, ci, li)...)
		}
	}
	return segments
}
