package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ErrNoInput 表示没有任何音频可供合并。
var ErrNoInput = errors.New("没有可合并的音频")

// MergeFiles 按给定顺序把多个音频文件的字节拼接成一个输出。
// 不做任何重编码或插入静音；依赖后端产出的 MP3 帧自包含、
// 可以直接首尾相接，这是本系统已知并接受的简化。
func MergeFiles(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	var out bytes.Buffer
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("读取音频文件 %s 失败: %w", p, err)
		}
		out.Write(data)
	}
	return out.Bytes(), nil
}
