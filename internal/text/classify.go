package text

import (
	"strings"
	"unicode"
)

// Language 标识一段文本的语言归属。
type Language string

const (
	// LangZH 中文。
	LangZH Language = "zh"
	// LangEN 英文（含纯数字，数字按约定用英文语音朗读）。
	LangEN Language = "en"
	// LangMixed 中英混排，只作为分段前的整体判定，
	// 切分后的段永远只会是 zh 或 en。
	LangMixed Language = "mixed"
)

// cjkPunct 中文标点集合，出现即视为中文内容。
const cjkPunct = "，。！？；：“”‘’（）、"

// isCJK 判断是否为 CJK 统一表意文字。
func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

// isCJKPunct 判断是否为中文标点。
func isCJKPunct(r rune) bool {
	return strings.ContainsRune(cjkPunct, r)
}

// isLatinLetter 判断是否为英文字母。
func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isNumeric 判断去除空白后是否为非空的纯数字串。
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Classify 判定一段文本的语言类型。
// 纯数字按 en 处理；同时含中文（或中文标点）和英文字母为 mixed；
// 只含中文为 zh；其余情况（包括纯空白）为 en。
func Classify(s string) Language {
	if strings.TrimSpace(s) == "" {
		return LangEN
	}
	if isNumeric(s) {
		return LangEN
	}

	hasChinese := false
	hasEnglish := false
	for _, r := range s {
		if isCJK(r) || isCJKPunct(r) {
			hasChinese = true
		} else if isLatinLetter(r) {
			hasEnglish = true
		}
		if hasChinese && hasEnglish {
			return LangMixed
		}
	}
	if hasChinese {
		return LangZH
	}
	return LangEN
}
