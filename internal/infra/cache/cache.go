package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize 是源文件内容缓存的默认容量（条目数）。
const DefaultSize = 64

// Store 缓存一次运行内读取过的源文件内容。
//
// 约束：
// - 只在单次运行内有效，不落盘（不是增量构建缓存）
// - 同一个源文件被多个工作单元引用时只读一次
// - size <= 0 时退化为直接读文件
type Store struct {
	lru *lru.Cache[string, []byte]
}

func New(size int) (*Store, error) {
	if size <= 0 {
		return &Store{}, nil
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("初始化源文件缓存失败：%w", err)
	}
	return &Store{lru: c}, nil
}

// ReadSource 读取 path 的内容；命中缓存时不访问文件系统。
// 返回的切片由缓存共享，调用方不得修改。
func (s *Store) ReadSource(path string) ([]byte, error) {
	key := cacheKey(path)
	if s != nil && s.lru != nil {
		if b, ok := s.lru.Get(key); ok {
			return b, nil
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if s != nil && s.lru != nil {
		s.lru.Add(key, b)
	}
	return b, nil
}

// Forget 移除 path 的缓存（例如该路径刚被写入新内容）。
func (s *Store) Forget(path string) {
	if s == nil || s.lru == nil {
		return
	}
	s.lru.Remove(cacheKey(path))
}

// Len 返回当前缓存条目数。
func (s *Store) Len() int {
	if s == nil || s.lru == nil {
		return 0
	}
	return s.lru.Len()
}

func cacheKey(path string) string {
	p := filepath.Clean(strings.TrimSpace(path))
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
