package pipeline

import "errors"

// 错误分类。调用方用 errors.Is 判别，HTTP 层据此映射状态码。
var (
	// ErrInvalidInput 输入本身不合法：空文本或未知音色。
	ErrInvalidInput = errors.New("无效的输入")
	// ErrNoSegments 切分后没有产出任何可合成的文本段。
	ErrNoSegments = errors.New("没有可合成的文本段")
	// ErrEmptyInput 送入合成器的文本段去除空白后为空。
	ErrEmptyInput = errors.New("文本段为空")
	// ErrSynthesisTimeout 单段合成超出时间限制。
	ErrSynthesisTimeout = errors.New("合成超时")
	// ErrSynthesisBackend 合成后端返回错误。
	ErrSynthesisBackend = errors.New("合成后端失败")
	// ErrEmptySynthesis 后端声称成功但产出了零字节音频，按硬失败处理。
	ErrEmptySynthesis = errors.New("合成结果为空")
	// ErrNoArtifacts 宽松策略下所有文本段都合成失败。
	ErrNoArtifacts = errors.New("所有文本段合成均失败")
	// ErrEmptyAssembly 拼接阶段没有收到任何音频段。
	ErrEmptyAssembly = errors.New("没有可拼接的音频段")
)
