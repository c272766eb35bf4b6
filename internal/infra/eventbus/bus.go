// Package eventbus はプロセス内のpub/sub。
// 購読ごとにFIFOの受信箱とworkerを1つ持ち、同じ購読者には発行順に届く。
// Publishはハンドラを待たない。
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableorder/internal/infra/queue"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("eventbus: closed")

// バスを流れる封筒。Sinkにもこの形で渡す。
type Event struct {
	Type       string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Handler func(ctx context.Context, ev Event) error

// 永続キュー（Kafka/RabbitMQ/Redis）への書き出し先
type Sink interface {
	Write(ctx context.Context, ev Event) error
	Close() error
}

type Option func(*Bus)

func WithSink(s Sink) Option {
	return func(b *Bus) { b.sink = s }
}

// 受信箱の上限。0は上限なし。溢れた分はログに出して捨てる。
func WithInboxSize(n int) Option {
	return func(b *Bus) { b.inboxSize = n }
}

func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

type subscription struct {
	id        uint64
	name      string
	eventType string
	handler   Handler
	inbox     *queue.Queue[Event]
}

type Bus struct {
	log       *zap.Logger
	sink      Sink
	inboxSize int
	now       func() time.Time

	mu     sync.RWMutex
	subs   map[string]map[uint64]*subscription
	sinkQ  *subscription
	nextID uint64
	closed bool

	//ハンドラに渡すctx。Closeの期限切れでcancelする。
	baseCtx    context.Context
	cancelBase context.CancelFunc
	wg         sync.WaitGroup
}

func New(log *zap.Logger, opts ...Option) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		log:        log,
		now:        time.Now,
		subs:       make(map[string]map[uint64]*subscription),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
	for _, opt := range opts {
		opt(b)
	}

	//sinkへの書き込みも専用の受信箱から順番に行う
	if b.sink != nil {
		b.sinkQ = &subscription{
			name:    "sink",
			handler: b.sink.Write,
			inbox:   queue.New[Event](b.inboxSize),
		}
		b.start(b.sinkQ)
	}
	return b
}

// Subscribe は以降に発行されたイベントだけを受け取る。
// 戻り値の関数で購読解除（受信済みの分は処理してから止まる）。
func (b *Bus) Subscribe(eventType, name string, h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if h == nil {
		return nil, errors.New("eventbus: nil handler")
	}

	b.nextID++
	s := &subscription{
		id:        b.nextID,
		name:      name,
		eventType: eventType,
		handler:   h,
		inbox:     queue.New[Event](b.inboxSize),
	}
	if b.subs[eventType] == nil {
		b.subs[eventType] = make(map[uint64]*subscription)
	}
	b.subs[eventType][s.id] = s
	b.start(s)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if m := b.subs[eventType]; m != nil {
				delete(m, s.id)
				if len(m) == 0 {
					delete(b.subs, eventType)
				}
			}
			b.mu.Unlock()
			s.inbox.Close()
		})
	}
	return cancel, nil
}

// Publish は受信箱に積んで即座に戻る。ハンドラの失敗は呼び出し元に返らない。
func (b *Bus) Publish(ctx context.Context, eventType string, payload any) {
	ev := Event{
		Type:       eventType,
		OccurredAt: b.now().UTC(),
		Payload:    payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.log.Warn("eventbus: publish after close", zap.String("event_type", eventType))
		return
	}

	if b.sinkQ != nil {
		b.enqueue(b.sinkQ, ev)
	}
	for _, s := range b.subs[eventType] {
		b.enqueue(s, ev)
	}
}

func (b *Bus) enqueue(s *subscription, ev Event) {
	if err := s.inbox.Push(ev); err != nil {
		b.log.Error("eventbus: event dropped",
			zap.String("subscriber", s.name),
			zap.String("event_type", ev.Type),
			zap.Error(err),
		)
	}
}

func (b *Bus) start(s *subscription) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			//受信箱がcloseされても残りは全部処理する
			ev, err := s.inbox.Pop(context.Background())
			if err != nil {
				return
			}
			b.dispatch(s, ev)
		}
	}()
}

// ハンドラのerror/panicはここで止める
func (b *Bus) dispatch(s *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("eventbus: handler panic",
				zap.String("subscriber", s.name),
				zap.String("event_type", ev.Type),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := s.handler(b.baseCtx, ev); err != nil {
		b.log.Error("eventbus: handler failed",
			zap.String("subscriber", s.name),
			zap.String("event_type", ev.Type),
			zap.Error(err),
		)
	}
}

// Close は新規発行を止め、受信箱を処理し切るまで待つ。
// ctxが先に終わった場合はハンドラのctxをcancelしてctx.Err()を返す。
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for _, m := range b.subs {
		for _, s := range m {
			s.inbox.Close()
		}
	}
	b.subs = make(map[string]map[uint64]*subscription)
	if b.sinkQ != nil {
		b.sinkQ.inbox.Close()
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		b.cancelBase()
		err = ctx.Err()
	}
	b.cancelBase()

	if b.sink != nil {
		if cerr := b.sink.Close(); cerr != nil {
			b.log.Error("eventbus: sink close failed", zap.Error(cerr))
		}
	}
	return err
}
