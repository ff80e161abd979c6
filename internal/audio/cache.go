package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/iabetor/duotts/internal/logger"
)

// CacheEntry 缓存索引中的一条记录。
type CacheEntry struct {
	Voice    string `json:"voice"`
	TextLen  int    `json:"text_len"`
	Size     int64  `json:"size"`
	CachedAt string `json:"cached_at"`
	LastUsed string `json:"last_used"`
}

// SpeechCache 按 (语音, 文本) 缓存单段合成结果，避免重复请求后端。
// 索引持久化为 JSON，超出容量时按最久未使用淘汰。
type SpeechCache struct {
	mu      sync.Mutex
	dir     string
	maxSize int64 // 最大缓存大小（字节），0 表示禁用
	index   map[string]*CacheEntry
}

// CacheKey 计算一段文本在指定语音下的缓存键。
func CacheKey(voice, text string) string {
	sum := sha256.Sum256([]byte(voice + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// NewSpeechCache 创建合成结果缓存。
// maxSizeMB 为 0 时缓存被禁用，所有操作变为空操作。
func NewSpeechCache(dir string, maxSizeMB int64) (*SpeechCache, error) {
	sc := &SpeechCache{
		dir:     dir,
		maxSize: maxSizeMB * 1024 * 1024,
		index:   make(map[string]*CacheEntry),
	}
	if maxSizeMB == 0 {
		return sc, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建缓存目录失败: %w", err)
	}
	if err := sc.loadIndex(); err != nil {
		logger.Warnf("[cache] 加载缓存索引失败（将使用空索引）: %v", err)
	}
	sc.validateIndex()
	return sc, nil
}

// Enabled 返回缓存是否启用。
func (sc *SpeechCache) Enabled() bool {
	return sc != nil && sc.maxSize > 0
}

// Lookup 查找缓存的音频，命中时返回字节并更新最近使用时间。
func (sc *SpeechCache) Lookup(key string) ([]byte, bool) {
	if !sc.Enabled() {
		return nil, false
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, ok := sc.index[key]
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(sc.filePath(key))
	if err != nil {
		delete(sc.index, key)
		return nil, false
	}

	entry.LastUsed = time.Now().Format(time.RFC3339)
	sc.saveIndexLocked()
	return data, true
}

// Store 写入一段合成结果。写入失败只记日志，缓存永远不影响主流程。
func (sc *SpeechCache) Store(key, voice, text string, data []byte) {
	if !sc.Enabled() || len(data) == 0 {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := os.WriteFile(sc.filePath(key), data, 0o644); err != nil {
		logger.Warnf("[cache] 写缓存文件失败: %v", err)
		return
	}

	now := time.Now().Format(time.RFC3339)
	sc.index[key] = &CacheEntry{
		Voice:    voice,
		TextLen:  len([]rune(text)),
		Size:     int64(len(data)),
		CachedAt: now,
		LastUsed: now,
	}
	sc.saveIndexLocked()
	sc.evictLocked()
}

func (sc *SpeechCache) filePath(key string) string {
	return filepath.Join(sc.dir, key+".mp3")
}

// loadIndex 从磁盘加载缓存索引。
func (sc *SpeechCache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(sc.dir, "index.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &sc.index)
}

// saveIndexLocked 持久化缓存索引（调用方需持有锁）。
func (sc *SpeechCache) saveIndexLocked() {
	data, err := json.MarshalIndent(sc.index, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(sc.dir, "index.json"), data, 0o644)
	}
	if err != nil {
		logger.Warnf("[cache] 保存缓存索引失败: %v", err)
	}
}

// validateIndex 移除本地文件已不存在的索引条目。
func (sc *SpeechCache) validateIndex() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	removed := 0
	for key := range sc.index {
		if _, err := os.Stat(sc.filePath(key)); err != nil {
			delete(sc.index, key)
			removed++
		}
	}
	if removed > 0 {
		logger.Infof("[cache] 索引校验：移除 %d 个无效条目", removed)
		sc.saveIndexLocked()
	}
	logger.Infof("[cache] 合成缓存已加载: %d 条, 目录 %s", len(sc.index), sc.dir)
}

// evictLocked 超出容量时按最久未使用淘汰（调用方需持有锁）。
func (sc *SpeechCache) evictLocked() {
	var total int64
	for _, e := range sc.index {
		total += e.Size
	}
	if total <= sc.maxSize {
		return
	}

	type keyed struct {
		key   string
		entry *CacheEntry
	}
	entries := make([]keyed, 0, len(sc.index))
	for k, v := range sc.index {
		entries = append(entries, keyed{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].entry.LastUsed < entries[j].entry.LastUsed
	})

	for _, ke := range entries {
		if total <= sc.maxSize {
			break
		}
		if err := os.Remove(sc.filePath(ke.key)); err != nil && !os.IsNotExist(err) {
			logger.Warnf("[cache] 删除缓存文件失败: %v", err)
			continue
		}
		total -= ke.entry.Size
		delete(sc.index, ke.key)
	}
	sc.saveIndexLocked()
}
