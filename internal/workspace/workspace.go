package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/iabetor/duotts/internal/logger"
)

// Manager 负责为每次合成请求分配独立的临时工作目录。
type Manager struct {
	baseDir string
}

// NewManager 创建工作目录管理器。
// baseDir 为空时使用系统临时目录。
func NewManager(baseDir string) (*Manager, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("创建工作根目录 %s 失败: %w", baseDir, err)
		}
	}
	return &Manager{baseDir: baseDir}, nil
}

// Scope 一次请求专用的临时目录。
// 目录内的文件命名由调用方按段索引划分，彼此不会冲突。
type Scope struct {
	dir     string
	release sync.Once
}

// NewScope 分配一个新的临时目录。
func (m *Manager) NewScope() (*Scope, error) {
	dir, err := os.MkdirTemp(m.baseDir, "duotts_")
	if err != nil {
		// 回退：在工作根目录下用 UUID 建目录
		fallback := filepath.Join(m.baseDir, uuid.NewString())
		if mkErr := os.MkdirAll(fallback, 0o755); mkErr != nil {
			return nil, fmt.Errorf("创建临时目录失败: %w", err)
		}
		logger.Warnf("[workspace] MkdirTemp 失败，回退到 %s: %v", fallback, err)
		dir = fallback
	}
	return &Scope{dir: dir}, nil
}

// Dir 返回目录路径。
func (s *Scope) Dir() string {
	return s.dir
}

// Path 返回目录内指定文件名的完整路径。
func (s *Scope) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Release 删除整个临时目录及其中的所有文件。
// 幂等，可安全地重复调用；删除失败只记日志，不向上传播。
func (s *Scope) Release() {
	s.release.Do(func() {
		if err := os.RemoveAll(s.dir); err != nil {
			logger.Errorf("[workspace] 清理临时目录 %s 失败: %v", s.dir, err)
		}
	})
}
