package printer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/layout"
)

// Queue 收集待打印的标签，Process 时把全部页面合并为一个作业写出。
type Queue struct {
	model     Model
	backend   Backend
	threshold int
	log       *zap.Logger

	mu    sync.Mutex
	pages []Page
}

// ErrTransport 表示打印数据未能送达打印机；编码阶段的错误不会包含它。
var ErrTransport = errors.New("打印失败")

// NewQueue 创建打印队列；log 为空时使用 zap.NewNop。
func NewQueue(model Model, backend Backend, threshold int, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{model: model, backend: backend, threshold: threshold, log: log}
}

// Add 以 count 份拷贝加入一张标签，裁切策略见 CutFlags。
// Directive 中的 Rotate 取自布局结果。
func (q *Queue) Add(res *layout.Result, d Directive, count int, cutOnce bool) error {
	if res == nil || res.Image == nil {
		return fmt.Errorf("标签画布为空")
	}
	if count < 1 {
		return fmt.Errorf("打印份数必须大于 0，实际 %d", count)
	}
	d.Rotate = res.Rotate
	return q.AddImage(res.Image, d, count, cutOnce)
}

// AddImage 与 Add 相同，但直接接受位图。
func (q *Queue) AddImage(img image.Image, d Directive, count int, cutOnce bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, cut := range CutFlags(count, cutOnce) {
		page := d
		page.Cut = cut
		q.pages = append(q.pages, Page{Image: img, Directive: page})
	}
	return nil
}

// Len 返回队列中的页数。
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pages)
}

// Process 编码并发送队列中的全部页面，返回作业 ID。无论成功与否队列都会被清空。
func (q *Queue) Process(ctx context.Context) (string, error) {
	q.mu.Lock()
	pages := q.pages
	q.pages = nil
	q.mu.Unlock()

	jobID := uuid.NewString()
	log := q.log.With(zap.String("job_id", jobID), zap.Int("pages", len(pages)))

	data, err := Encode(q.model, q.threshold, pages)
	if err != nil {
		log.Error("编码打印作业失败", zap.Error(err))
		return jobID, err
	}
	if err := q.backend.Write(ctx, data); err != nil {
		log.Error("发送打印作业失败", zap.String("backend", q.backend.String()), zap.Error(err))
		return jobID, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	log.Info("打印作业已发送", zap.String("backend", q.backend.String()), zap.Int("bytes", len(data)))
	return jobID, nil
}
