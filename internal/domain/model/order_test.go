package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Transitions(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusServed,
		OrderStatusCancelled,
	}
	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:   {OrderStatusPreparing: true, OrderStatusCancelled: true},
		OrderStatusPreparing: {OrderStatusReady: true, OrderStatusCancelled: true},
		OrderStatusReady:     {OrderStatusServed: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_SameStateAndTerminal(t *testing.T) {
	assert.False(t, OrderStatusServed.CanTransitionTo(OrderStatusServed))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPreparing))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPending))

	assert.True(t, OrderStatusServed.IsFinal())
	assert.True(t, OrderStatusCancelled.IsFinal())
	assert.False(t, OrderStatusReady.IsFinal())
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusReady.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}
