package feature

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// ArtifactLoader 制品加载器接口
// 支持从不同来源读取制品原始字节（本地文件、HTTP 接口、Redis、S3 兼容存储等）
type ArtifactLoader interface {
	// Load 读取制品
	// source 是数据源标识（文件路径、URL、Redis key、S3 key 等）
	Load(ctx context.Context, source string) ([]byte, error)
}

// FileLoader 本地文件加载器
type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

func (l *FileLoader) Load(_ context.Context, source string) ([]byte, error) {
	data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

// HTTPLoader HTTP 接口加载器
type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader 创建 HTTP 加载器；timeout 为 0 时默认 10s。
//
// 用法：
//
//	loader := feature.NewHTTPLoader(5 * time.Second)
//	data, err := loader.Load(ctx, "https://artifacts.example.com/credit/v3/scaler.json")
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPLoader{client: &http.Client{Timeout: timeout}}
}

// NewHTTPLoaderWithClient 使用自定义 HTTP 客户端创建加载器
func NewHTTPLoaderWithClient(client *http.Client) *HTTPLoader {
	return &HTTPLoader{client: client}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build artifact request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch artifact: status=%d, body=%s", resp.StatusCode, string(body))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact response: %w", err)
	}
	return data, nil
}

// S3Client S3 兼容协议客户端接口（不直接依赖具体 SDK，支持依赖注入）
// S3 兼容协议支持 AWS S3、阿里云 OSS、腾讯云 COS、MinIO 等
type S3Client interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// S3Loader S3 兼容协议加载器，source 形如 s3://bucket/key。
type S3Loader struct {
	client S3Client
}

func NewS3Loader(client S3Client) *S3Loader {
	return &S3Loader{client: client}
}

func (l *S3Loader) Load(ctx context.Context, source string) ([]byte, error) {
	if l.client == nil {
		return nil, fmt.Errorf("s3 client not configured")
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(source, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 source %q, want s3://bucket/key", source)
	}
	reader, err := l.client.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get s3 object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return data, nil
}

// StoreLoader 从 core.Store 读取制品 blob，source 形如 redis://key。
type StoreLoader struct {
	store core.Store
}

func NewStoreLoader(store core.Store) *StoreLoader {
	return &StoreLoader{store: store}
}

func (l *StoreLoader) Load(ctx context.Context, source string) ([]byte, error) {
	if l.store == nil {
		return nil, core.ErrStoreUnavailable
	}
	key := source
	if _, rest, ok := strings.Cut(source, "://"); ok {
		key = rest
	}
	data, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s get %q: %w", l.store.Name(), key, err)
	}
	return data, nil
}

// MultiLoader 按 source 的 scheme 分派到具体加载器；无 scheme 视为本地文件。
type MultiLoader struct {
	loaders map[string]ArtifactLoader
}

// NewMultiLoader 创建默认分派表：file、http、https。redis / s3 需通过 Register 注册。
func NewMultiLoader(httpTimeout time.Duration) *MultiLoader {
	httpLoader := NewHTTPLoader(httpTimeout)
	return &MultiLoader{loaders: map[string]ArtifactLoader{
		"file":  NewFileLoader(),
		"http":  httpLoader,
		"https": httpLoader,
	}}
}

// Register 注册 scheme 对应的加载器
func (m *MultiLoader) Register(scheme string, loader ArtifactLoader) *MultiLoader {
	m.loaders[scheme] = loader
	return m
}

func (m *MultiLoader) Load(ctx context.Context, source string) ([]byte, error) {
	scheme := "file"
	if s, _, ok := strings.Cut(source, "://"); ok {
		scheme = strings.ToLower(s)
	}
	loader, ok := m.loaders[scheme]
	if !ok {
		return nil, fmt.Errorf("no artifact loader for scheme %q", scheme)
	}
	return loader.Load(ctx, source)
}

var (
	_ ArtifactLoader = (*FileLoader)(nil)
	_ ArtifactLoader = (*HTTPLoader)(nil)
	_ ArtifactLoader = (*S3Loader)(nil)
	_ ArtifactLoader = (*StoreLoader)(nil)
	_ ArtifactLoader = (*MultiLoader)(nil)
)
