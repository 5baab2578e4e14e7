package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_ReadSource_CachesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.scss")
	writeFile(t, p, "v1")

	s, err := New(4)
	require.NoError(t, err)

	b, err := s.ReadSource(p)
	require.NoError(t, err)
	require.Equal(t, "v1", string(b))

	// 文件被改写后仍命中缓存（单次运行内视为不可变）。
	writeFile(t, p, "v2")
	b, err = s.ReadSource(filepath.Join(dir, ".", "a.scss"))
	require.NoError(t, err)
	require.Equal(t, "v1", string(b), "期望命中缓存")
	require.Equal(t, 1, s.Len())

	s.Forget(p)
	b, err = s.ReadSource(p)
	require.NoError(t, err)
	require.Equal(t, "v2", string(b), "Forget 后应重新读取")
}

func TestStore_Disabled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.scss")
	writeFile(t, p, "v1")

	s, err := New(0)
	require.NoError(t, err)
	_, err = s.ReadSource(p)
	require.NoError(t, err)

	writeFile(t, p, "v2")
	b, err := s.ReadSource(p)
	require.NoError(t, err)
	require.Equal(t, "v2", string(b), "禁用缓存时应直接读文件")
	require.Zero(t, s.Len())
}

func TestStore_ReadSource_Missing(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	_, err = s.ReadSource(filepath.Join(t.TempDir(), "nope.scss"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Zero(t, s.Len(), "失败的读取不应写入缓存")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
