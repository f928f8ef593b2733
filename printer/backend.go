package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPort 为 Brother 网络打印机的原始打印端口。
const DefaultPort = "9100"

// Backend 把一份完整的打印作业写给打印机。
type Backend interface {
	Write(ctx context.Context, job []byte) error
	String() string
}

// BackendOptions 控制网络后端的超时与重试。
type BackendOptions struct {
	Timeout time.Duration
	Retries int
}

// NewBackend 按设备描述创建后端：file:///dev/usb/lp1 或 tcp://host[:port]。
func NewBackend(device string, opts BackendOptions) (Backend, error) {
	u, err := url.Parse(device)
	if err != nil {
		return nil, fmt.Errorf("解析打印机地址 %q 失败: %w", device, err)
	}
	switch u.Scheme {
	case "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			return nil, fmt.Errorf("打印机地址 %q 缺少设备路径", device)
		}
		return &FileBackend{Path: path}, nil
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("打印机地址 %q 缺少主机名", device)
		}
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), DefaultPort)
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return &NetworkBackend{Addr: host, Timeout: timeout, Retries: max(opts.Retries, 0)}, nil
	default:
		return nil, fmt.Errorf("不支持的打印机后端 %q", u.Scheme)
	}
}

// FileBackend 写入字符设备（例如 Linux usblp 的 /dev/usb/lp0）。
type FileBackend struct {
	Path string
}

func (b *FileBackend) String() string { return "file://" + b.Path }

func (b *FileBackend) Write(ctx context.Context, job []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(b.Path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("打开打印设备 %s 失败: %w", b.Path, err)
	}
	if _, err := f.Write(job); err != nil {
		f.Close()
		return fmt.Errorf("写入打印设备 %s 失败: %w", b.Path, err)
	}
	return f.Close()
}

// NetworkBackend 通过 TCP 发送作业，连接失败时按指数退避重试。
type NetworkBackend struct {
	Addr    string
	Timeout time.Duration
	Retries int
}

func (b *NetworkBackend) String() string { return "tcp://" + b.Addr }

func (b *NetworkBackend) Write(ctx context.Context, job []byte) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(b.Retries)), ctx)

	return backoff.Retry(func() error {
		err := b.send(ctx, job)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}, retry)
}

func (b *NetworkBackend) send(ctx context.Context, job []byte) error {
	dialer := net.Dialer{Timeout: b.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", b.Addr)
	if err != nil {
		return fmt.Errorf("连接打印机 %s 失败: %w", b.Addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(b.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("发送打印数据到 %s 失败: %w", b.Addr, err)
	}
	return nil
}
