package text

import (
	"strings"
	"unicode/utf8"
)

// chunkEnders 顶层分块允许的断点：中英文句末标点和换行。
const chunkEnders = "。！？；.!?\n"

// cutSentence 从 s 中切出第一个完整句子（含句末符号）。
// 找不到断点时返回 found=false，rest 为原文。
func cutSentence(s string) (sentence, rest string, found bool) {
	for i, r := range s {
		if strings.ContainsRune(chunkEnders, r) {
			end := i + utf8.RuneLen(r)
			return s[:end], s[end:], true
		}
	}
	return "", s, false
}

// SplitChunks 把超长输入在句子边界处切成不超过 maxLen 个字符的块。
// 文本内容原样保留（包括换行，后续按行切分依赖它）；
// 单句超过 maxLen 时退化为按长度硬切。
func SplitChunks(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		currentLen = 0
	}
	add := func(piece string) {
		n := utf8.RuneCountInString(piece)
		if currentLen > 0 && currentLen+n > maxLen {
			flush()
		}
		// 单句本身超限，按长度硬切
		for n > maxLen {
			runes := []rune(piece)
			chunks = append(chunks, string(runes[:maxLen]))
			piece = string(runes[maxLen:])
			n = utf8.RuneCountInString(piece)
		}
		current.WriteString(piece)
		currentLen += n
	}

	remaining := text
	for {
		sentence, rest, found := cutSentence(remaining)
		if !found {
			if remaining != "" {
				add(remaining)
			}
			break
		}
		add(sentence)
		remaining = rest
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}
