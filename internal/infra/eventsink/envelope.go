// Package eventsink はバスのイベントを外部の永続キューに書き出す。
// どのsinkも同じJSON封筒 {event_type, occurred_at, payload} を使う。
package eventsink

import (
	"encoding/json"
	"fmt"

	"tableorder/internal/domain/event"
	"tableorder/internal/infra/eventbus"
)

func encode(ev eventbus.Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type, err)
	}
	return b, nil
}

// 店舗IDを持たないpayloadは空文字
func storeKey(ev eventbus.Event) string {
	if s, ok := ev.Payload.(event.StoreScoped); ok {
		return s.StoreKey()
	}
	return ""
}
