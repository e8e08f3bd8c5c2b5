// Package images 保存图片载荷并记录其固有尺寸。文档中的图片块只持有引用名，
// 尺寸在插入时从这里查询。
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// 尺寸上限，防止异常载荷占满内存。
const (
	MaxWidth  = 4096
	MaxHeight = 4096
	MaxBytes  = 16 * 1024 * 1024
)

var (
	ErrNotFound = errors.New("images: not found")
	ErrTooLarge = errors.New("images: too large")
)

// Entry 是仓库中的一张图片。占位图片没有 Data 与 Format。
type Entry struct {
	Name   string
	Format string
	Width  float64
	Height float64
	Data   []byte
}

// Store 是并发安全的图片仓库。零值可直接使用。
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore 返回空仓库。
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Put 解码载荷头部获得尺寸并保存，同名图片被替换。
func (s *Store) Put(name string, data []byte) (Entry, error) {
	if len(data) > MaxBytes {
		return Entry{}, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, name, len(data), MaxBytes)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Entry{}, fmt.Errorf("解析图片 %s 失败: %w", name, err)
	}
	if cfg.Width > MaxWidth || cfg.Height > MaxHeight {
		return Entry{}, fmt.Errorf("%w: %s is %dx%d (max %dx%d)", ErrTooLarge, name, cfg.Width, cfg.Height, MaxWidth, MaxHeight)
	}
	e := Entry{
		Name:   name,
		Format: format,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
		Data:   data,
	}
	s.set(e)
	return e, nil
}

// PutFile 读取文件后调用 Put。
func (s *Store) PutFile(name, path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	return s.Put(name, data)
}

// PutSized 保存没有载荷的占位图片。
func (s *Store) PutSized(name string, width, height float64) (Entry, error) {
	if width <= 0 || height <= 0 {
		return Entry{}, fmt.Errorf("占位图片 %s 尺寸无效: %gx%g", name, width, height)
	}
	if width > MaxWidth || height > MaxHeight {
		return Entry{}, fmt.Errorf("%w: %s is %gx%g (max %dx%d)", ErrTooLarge, name, width, height, MaxWidth, MaxHeight)
	}
	e := Entry{Name: name, Width: width, Height: height}
	s.set(e)
	return e, nil
}

func (s *Store) set(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	s.entries[e.Name] = e
}

// Get 按名称查询图片。
func (s *Store) Get(name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Names 返回按字典序排列的图片名称。
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
