package audio

import (
	"bytes"
	"testing"
)

func TestCacheKey_Distinct(t *testing.T) {
	k1 := CacheKey("voice-a", "你好")
	k2 := CacheKey("voice-b", "你好")
	k3 := CacheKey("voice-a", "你好吗")
	if k1 == k2 || k1 == k3 {
		t.Errorf("cache keys should differ: %s %s %s", k1, k2, k3)
	}
	if k1 != CacheKey("voice-a", "你好") {
		t.Error("cache key is not deterministic")
	}
}

func TestSpeechCache_Disabled(t *testing.T) {
	sc, err := NewSpeechCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Enabled() {
		t.Error("cache with size 0 should be disabled")
	}
	sc.Store("key", "voice", "文本", []byte("data"))
	if _, ok := sc.Lookup("key"); ok {
		t.Error("disabled cache should never hit")
	}
}

func TestSpeechCache_NilSafe(t *testing.T) {
	var sc *SpeechCache
	if sc.Enabled() {
		t.Error("nil cache should report disabled")
	}
	sc.Store("key", "voice", "文本", []byte("data"))
	if _, ok := sc.Lookup("key"); ok {
		t.Error("nil cache should never hit")
	}
}

func TestSpeechCache_StoreAndLookup(t *testing.T) {
	sc, err := NewSpeechCache(t.TempDir(), 16)
	if err != nil {
		t.Fatal(err)
	}

	key := CacheKey("zh-CN-XiaoxiaoNeural", "你好世界")
	data := []byte("fake mp3 bytes")
	sc.Store(key, "zh-CN-XiaoxiaoNeural", "你好世界", data)

	got, ok := sc.Lookup(key)
	if !ok {
		t.Fatal("expected cache hit after Store")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("cached data = %q, want %q", got, data)
	}

	if _, ok := sc.Lookup(CacheKey("other", "你好世界")); ok {
		t.Error("unexpected hit for different voice")
	}
}

func TestSpeechCache_SurvivesReload(t *testing.T) {
	dir := t.TempDir()
	sc, err := NewSpeechCache(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey("v", "text")
	sc.Store(key, "v", "text", []byte("payload"))

	// 用同一目录重建缓存，索引应从磁盘恢复
	sc2, err := NewSpeechCache(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := sc2.Lookup(key)
	if !ok {
		t.Fatal("expected hit after reload")
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Errorf("cached data = %q, want %q", got, "payload")
	}
}
