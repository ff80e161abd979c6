package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScope_CreateWriteRelease(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	scope, err := m.NewScope()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(scope.Dir()); err != nil {
		t.Fatalf("scope dir should exist: %v", err)
	}

	path := scope.Path("segment_0_0_0_abc.mp3")
	if filepath.Dir(path) != scope.Dir() {
		t.Errorf("Path should be inside scope dir, got %s", path)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	scope.Release()
	if _, err := os.Stat(scope.Dir()); !os.IsNotExist(err) {
		t.Errorf("scope dir should be gone after Release, stat err = %v", err)
	}
}

func TestScope_ReleaseIdempotent(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	scope, err := m.NewScope()
	if err != nil {
		t.Fatal(err)
	}

	scope.Release()
	scope.Release() // 重复释放不得 panic 或报错
}

func TestScopes_AreIsolated(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s1, err := m.NewScope()
	if err != nil {
		t.Fatal(err)
	}
	s2, err := m.NewScope()
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Release()
	defer s2.Release()

	if s1.Dir() == s2.Dir() {
		t.Error("two scopes share the same directory")
	}
}
