package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExpand_DeclaredOrderAndDedup(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.scss"))
	touch(t, filepath.Join(root, "a.scss"))
	touch(t, filepath.Join(root, "z", "c.scss"))

	// b.scss 先声明：必须排在最前；随后 *.scss 只补充尚未出现的文件。
	got, err := Expand([]string{"b.scss", "*.scss", "**/*.scss"}, root)
	require.NoError(t, err)
	want := []string{
		filepath.Join(root, "b.scss"),
		filepath.Join(root, "a.scss"),
		filepath.Join(root, "z", "c.scss"),
	}
	require.Empty(t, cmp.Diff(want, got), "匹配结果不符合预期 (-want +got)")
}

func TestExpand_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"c.scss", "a.scss", "b.scss", filepath.Join("x", "d.scss"), filepath.Join("x", "y", "e.scss")} {
		touch(t, filepath.Join(root, n))
	}

	first, err := Expand([]string{"**/*.scss"}, root)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Expand([]string{"**/*.scss"}, root)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(first, again), "重复展开结果不一致 (-first +again)")
	}
	require.Len(t, first, 5)
}

func TestExpand_FilesOnly(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "dir.scss", "inner.scss"))

	got, err := Expand([]string{"*.scss"}, root)
	require.NoError(t, err)
	require.Empty(t, got, "目录不应被当作匹配结果")
}

func TestExpand_NoMatchIsNotError(t *testing.T) {
	root := t.TempDir()

	got, err := Expand([]string{"missing/*.scss", "nope.scss"}, root)
	require.NoError(t, err, "零匹配不应报错")
	require.Empty(t, got)
}

func TestExpand_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.scss"))
	touch(t, filepath.Join(root, "_partial.scss"))
	touch(t, filepath.Join(root, "vendor", "v.scss"))

	got, err := Expand([]string{"**/*.scss", "!_*.scss", "!vendor/**"}, root)
	require.NoError(t, err)
	want := []string{filepath.Join(root, "a.scss")}
	require.Empty(t, cmp.Diff(want, got), "排除结果不符合预期 (-want +got)")
}

func TestExpand_ParentAndAbsolutePatterns(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "site")
	touch(t, filepath.Join(root, "shared", "s.scss"))
	require.NoError(t, os.MkdirAll(base, 0o755))

	got, err := Expand([]string{"../shared/*.scss"}, base)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, filepath.Join(root, "shared", "s.scss"), filepath.Clean(got[0]))

	abs := filepath.Join(root, "shared", "*.scss")
	got, err = Expand([]string{abs}, base)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "shared", "s.scss")}, got)
}

func TestExpand_BadPattern(t *testing.T) {
	root := t.TempDir()

	_, err := Expand([]string{"[a-.scss"}, root)
	require.True(t, IsPatternError(err), "期望 PatternError，实际：%T %v", err, err)
}

func TestIncludePatterns(t *testing.T) {
	got := IncludePatterns([]string{" ", "!x/*.scss", "a/*.sass", "b.scss"})
	require.Empty(t, cmp.Diff([]string{"a/*.sass", "b.scss"}, got))
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}
