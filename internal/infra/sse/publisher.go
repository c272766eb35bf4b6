// Package sse は管理画面向けのServer-Sent Events配信。
// 接続ごとにキューを持ち、イベントは同じ店舗の接続にだけ流す。
package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"tableorder/internal/domain/event"
	"tableorder/internal/infra/eventbus"
	"tableorder/internal/infra/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEvicted = errors.New("sse: connection evicted (queue full)")
	ErrClosed  = errors.New("sse: publisher closed")
)

type client struct {
	id      string
	storeID string
	q       *queue.Queue[[]byte]
}

type Publisher struct {
	log       *zap.Logger
	queueSize int
	heartbeat time.Duration

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// queueSize: 0は無制限。溢れた接続は切断する（クライアント側で再接続→再取得）。
func NewPublisher(log *zap.Logger, queueSize int, heartbeat time.Duration) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Publisher{
		log:       log,
		queueSize: queueSize,
		heartbeat: heartbeat,
		clients:   make(map[string]*client),
	}
}

// Attach は注文イベントを購読する（起動時に1回）
func (p *Publisher) Attach(bus *eventbus.Bus) (func(), error) {
	handler := func(ctx context.Context, ev eventbus.Event) error {
		return p.Broadcast(ctx, ev.Payload)
	}

	cancelCreated, err := bus.Subscribe(event.TypeOrderCreated, "sse", handler)
	if err != nil {
		return nil, err
	}
	cancelChanged, err := bus.Subscribe(event.TypeOrderStatusChanged, "sse", handler)
	if err != nil {
		cancelCreated()
		return nil, err
	}
	return func() {
		cancelCreated()
		cancelChanged()
	}, nil
}

// Broadcast はpayloadの店舗IDに一致する接続へ送る
func (p *Publisher) Broadcast(_ context.Context, payload any) error {
	scoped, ok := payload.(event.StoreScoped)
	if !ok {
		return fmt.Errorf("sse: payload %T has no store id", payload)
	}
	storeID := scoped.StoreKey()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}

	p.mu.RLock()
	var full []*client
	for _, c := range p.clients {
		if c.storeID != storeID {
			continue
		}
		if err := c.q.Push(data); err != nil {
			if errors.Is(err, queue.ErrFull) {
				full = append(full, c)
			}
		}
	}
	p.mu.RUnlock()

	for _, c := range full {
		p.log.Warn("sse: queue full, evicting connection",
			zap.String("conn_id", c.id),
			zap.String("store_id", c.storeID),
		)
		p.remove(c.id)
		c.q.Close()
	}
	return nil
}

func (p *Publisher) register(storeID string) (*client, error) {
	c := &client{
		id:      uuid.NewString(),
		storeID: storeID,
		q:       queue.New[[]byte](p.queueSize),
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.clients[c.id] = c
	p.mu.Unlock()

	p.log.Info("sse: connected", zap.String("conn_id", c.id), zap.String("store_id", storeID))
	return c, nil
}

func (p *Publisher) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Close は全接続のStreamを終わらせる（シャットダウン時）。以降の接続はErrClosed。
func (p *Publisher) Close() {
	p.mu.Lock()
	clients := p.clients
	p.clients = make(map[string]*client)
	p.closed = true
	p.mu.Unlock()

	for _, c := range clients {
		c.q.Close()
	}
}

func (p *Publisher) remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.clients[id]; !ok {
		return false
	}
	delete(p.clients, id)
	return true
}

// ConnectionCount は店舗の接続数（storeIDが空なら全体）
func (p *Publisher) ConnectionCount(storeID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if storeID == "" {
		return len(p.clients)
	}
	n := 0
	for _, c := range p.clients {
		if c.storeID == storeID {
			n++
		}
	}
	return n
}

// Stream は接続を登録し、ctxが終わるか書き込みに失敗するまでイベントを書き続ける。
// 終了時には必ず登録を外す。
func (p *Publisher) Stream(ctx context.Context, storeID string, w io.Writer) error {
	c, err := p.register(storeID)
	if err != nil {
		return err
	}
	defer func() {
		if p.remove(c.id) {
			c.q.Close()
		}
		p.log.Info("sse: disconnected", zap.String("conn_id", c.id), zap.String("store_id", storeID))
	}()

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	//接続直後に1回流してヘッダを確定させる
	if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
		return err
	}
	flush()

	//heartbeatと同時に待つため、キューの読み出しは別goroutine
	type item struct {
		data []byte
		err  error
	}
	items := make(chan item)
	popCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer close(items)
		for {
			data, err := c.q.Pop(popCtx)
			select {
			case items <- item{data: data, err: err}:
			case <-popCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(p.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return err
			}
			flush()
		case it, ok := <-items:
			if !ok {
				return nil
			}
			if it.err != nil {
				if errors.Is(it.err, queue.ErrClosed) {
					if p.isClosed() {
						return nil
					}
					return ErrEvicted
				}
				return nil
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", it.data); err != nil {
				return err
			}
			flush()
		}
	}
}
