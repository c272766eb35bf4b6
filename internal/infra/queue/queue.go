// Package queue はイベント配送用のFIFOキュー。
// Push側はブロックしない。Pop側はctxが終わるかデータが来るまで待つ。
package queue

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrFull   = errors.New("queue full")
	ErrClosed = errors.New("queue closed")
)

type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	limit  int
	closed bool
	notify chan struct{}
}

// limit <= 0 は上限なし
func New[T any](limit int) *Queue[T] {
	if limit < 0 {
		limit = 0
	}
	return &Queue[T]{
		limit:  limit,
		notify: make(chan struct{}, 1),
	}
}

func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.limit > 0 && len(q.items) >= q.limit {
		q.mu.Unlock()
		return ErrFull
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Pop は先頭を取り出す。
// Close後も残りは取り出せる。空になったらErrClosed。
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			rest := len(q.items)
			q.mu.Unlock()
			//他の待ち手がいれば起こす
			if rest > 0 {
				q.wake()
			}
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			return zero, ErrClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.notify:
		}
	}
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close は以降のPushを拒否する。二重に呼んでも良い。
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
