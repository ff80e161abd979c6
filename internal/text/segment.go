package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment 一个可直接送入合成后端的文本段。
// (Chunk, Line, Index) 三元组唯一标识段在原文中的位置，
// 也是最终音频拼接顺序的排序键。
type Segment struct {
	Text  string
	Lang  Language
	Chunk int
	Line  int
	Index int
}

// Segmenter 按语言类型把一行文本切成合成段。
// 纯函数式的无状态切分器，所有字段在构造后只读。
type Segmenter struct {
	maxLen       int // 单段最大字符数
	minLen       int // 英文段最小字符数，纯数字段不受限
	numberWindow int // 数字语境判断的前后查看窗口
}

// NewSegmenter 创建切分器。
func NewSegmenter(maxLen, minLen, numberWindow int) *Segmenter {
	if maxLen <= 0 {
		maxLen = 1000
	}
	if minLen <= 0 {
		minLen = 2
	}
	if numberWindow <= 0 {
		numberWindow = 5
	}
	return &Segmenter{maxLen: maxLen, minLen: minLen, numberWindow: numberWindow}
}

// langPart 切分过程中的中间结果：一段文本及其语言。
type langPart struct {
	text string
	lang Language
}

// Split 把一行文本切成有序的合成段序列。
// 按整行的语言判定选择策略；产出段按出现顺序编号。
// 空行或低于最小长度且无数字内容的输入会产出零个段，这不是错误。
func (s *Segmenter) Split(line string, chunk, lineIdx int) []Segment {
	var parts []langPart
	switch Classify(line) {
	case LangZH:
		for _, t := range s.splitChinese(line) {
			parts = append(parts, langPart{t, LangZH})
		}
	case LangMixed:
		parts = s.splitMixed(line)
	default:
		for _, t := range s.splitEnglish(line) {
			parts = append(parts, langPart{t, LangEN})
		}
	}

	segs := make([]Segment, 0, len(parts))
	for i, p := range parts {
		segs = append(segs, Segment{
			Text:  p.text,
			Lang:  p.lang,
			Chunk: chunk,
			Line:  lineIdx,
			Index: i,
		})
	}
	return segs
}

// splitEnglish 按空白分词后逐词累积，在句末/从句标点或长度超限处断段。
// 缩写和带小数点的数字不触发断段；过短的非数字段被丢弃。
func (s *Segmenter) splitEnglish(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if isNumeric(trimmed) {
		return []string{trimmed}
	}

	var out []string
	var current []string

	emit := func() {
		sentence := strings.TrimSpace(strings.Join(current, " "))
		if utf8.RuneCountInString(sentence) >= s.minLen || isNumeric(sentence) {
			out = append(out, sentence)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		current = append(current, word)

		if !endsWithAny(word, ".!?") && !endsWithAny(word, ",;:") &&
			utf8.RuneCountInString(strings.Join(current, " ")) < s.maxLen {
			continue
		}

		// 缩写/编号启发式：词尾是句点但去掉句点后是数字、
		// 全大写或整词不超过 3 个字符时继续累积
		if strings.HasSuffix(word, ".") {
			stem := word[:len(word)-1]
			if !isNumeric(stem) && (allUpper(stem) || utf8.RuneCountInString(word) <= 3) {
				continue
			}
		}
		emit()
	}
	if len(current) > 0 {
		emit()
	}
	return out
}

// splitChinese 先按主要句末标点（。！？；）切句并保留标点，
// 仍超长的句子再按次要标点（，、：）贪心合并子句。
func (s *Segmenter) splitChinese(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	// 短文本不切分，整行作为一段
	if utf8.RuneCountInString(text) <= s.maxLen {
		return []string{trimmed}
	}

	var clauses []string
	for _, c := range splitAfterAny(text, "。！？；") {
		if strings.TrimSpace(c) != "" {
			clauses = append(clauses, strings.TrimSpace(c))
		}
	}

	var result []string
	for _, clause := range clauses {
		if utf8.RuneCountInString(clause) <= s.maxLen {
			result = append(result, clause)
			continue
		}
		var current string
		for _, part := range splitAfterAny(clause, "，、：") {
			if utf8.RuneCountInString(current)+utf8.RuneCountInString(part) <= s.maxLen {
				current += part
				continue
			}
			if current != "" {
				result = append(result, current)
			}
			current = part
		}
		if current != "" {
			result = append(result, current)
		}
	}

	out := result[:0]
	for _, r := range result {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}

// splitMixed 逐字符扫描中英混排文本，在语言切换处断段。
// 数字连同小数点/百分号作为原子 token，归属取决于前后窗口内
// 是否出现汉字：中文语境的数字用中文语音朗读，反之用英文语音。
func (s *Segmenter) splitMixed(text string) []langPart {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if isNumeric(trimmed) {
		return []langPart{{trimmed, LangEN}}
	}

	runes := []rune(text)
	var parts []langPart
	var buf []rune
	var current Language

	flush := func() {
		if strings.TrimSpace(string(buf)) != "" {
			parts = append(parts, langPart{string(buf), current})
		}
		buf = buf[:0]
	}
	switchTo := func(lang Language) {
		if current != lang {
			flush()
			current = lang
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case isCJK(r) || isCJKPunct(r):
			switchTo(LangZH)
			buf = append(buf, r)

		case unicode.IsDigit(r):
			// 吞下完整的数字 token（含小数点和百分号）
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == '%') {
				j++
			}
			if s.inChineseContext(runes, i) {
				switchTo(LangZH)
			} else {
				switchTo(LangEN)
			}
			buf = append(buf, runes[i:j]...)
			i = j - 1

		case isLatinLetter(r):
			switchTo(LangEN)
			buf = append(buf, r)

		default:
			// 标点和空格跟随当前已打开的段
			if len(buf) > 0 {
				buf = append(buf, r)
			}
		}
	}
	flush()

	out := parts[:0]
	for _, p := range parts {
		t := strings.TrimSpace(p.text)
		if t == "" {
			continue
		}
		if p.lang == LangZH || utf8.RuneCountInString(t) >= s.minLen || isNumeric(t) {
			out = append(out, langPart{t, p.lang})
		}
	}
	return out
}

// inChineseContext 判断 pos 处的数字是否处于中文语境：
// 向前和向后各看 numberWindow 个字符，出现任一汉字即视为中文语境。
// 向后窗口从数字本身开始数，这是沿用已有行为，窗口大小可配置。
func (s *Segmenter) inChineseContext(runes []rune, pos int) bool {
	lo := pos - s.numberWindow
	if lo < 0 {
		lo = 0
	}
	hi := pos + s.numberWindow
	if hi > len(runes) {
		hi = len(runes)
	}
	for _, r := range runes[lo:hi] {
		if isCJK(r) {
			return true
		}
	}
	return false
}

// splitAfterAny 在 seps 中任一字符之后断开 s，分隔符保留在前一片段末尾。
func splitAfterAny(s, seps string) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if strings.ContainsRune(seps, r) {
			pieces = append(pieces, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}

// endsWithAny 判断 s 的最后一个字符是否在 chars 中。
func endsWithAny(s, chars string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(chars, r)
}

// allUpper 判断 s 的所有字符是否都是大写字母；空串视为真。
func allUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
