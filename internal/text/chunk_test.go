package text

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	input := "你好。Hello."
	got := SplitChunks(input, 100)
	if !reflect.DeepEqual(got, []string{input}) {
		t.Errorf("SplitChunks = %v, want single chunk", got)
	}
}

func TestSplitChunks_BreaksAtSentenceBoundaries(t *testing.T) {
	got := SplitChunks("第一句。第二句。第三句。", 8)
	want := []string{"第一句。第二句。", "第三句。"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitChunks = %v, want %v", got, want)
	}
}

func TestSplitChunks_PreservesContent(t *testing.T) {
	input := "line one.\nline two!\n第三行。还有一句？end"
	got := SplitChunks(input, 10)
	if strings.Join(got, "") != input {
		t.Errorf("chunks do not reassemble to the original:\n%q\nvs\n%q",
			strings.Join(got, ""), input)
	}
}

func TestSplitChunks_HardCutsOversizedSentence(t *testing.T) {
	got := SplitChunks(strings.Repeat("a", 12), 5)
	want := []string{"aaaaa", "aaaaa", "aa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitChunks = %v, want %v", got, want)
	}
}

func TestSplitChunks_NewlineIsABoundary(t *testing.T) {
	got := SplitChunks("line one\nline two", 10)
	want := []string{"line one\n", "line two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitChunks = %v, want %v", got, want)
	}
}
