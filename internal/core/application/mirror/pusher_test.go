package mirror_test

import (
	"context"
	"sync"
	"testing"

	"gasdelivery/internal/core/application/mirror"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
)

// blockingTable signals the first List on entered and holds every List until release is closed.
type blockingTable struct {
	*memTable
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingTable) List(ctx context.Context, view ports.MirrorView) ([]ports.MirrorRow, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.memTable.List(ctx, view)
}

func pushedOrders(table *memTable) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range table.rows(ports.ViewPending) {
		out[r.OrderID] = struct{}{}
	}
	return out
}

func TestAsyncPusher_DrainsQueueOnShutdown(t *testing.T) {
	table := newMemTable()
	first, second := newOrder(t), newOrder(t)
	svc := newService(table, &memOrders{orders: []*order.Order{first, second}})
	pusher := mirror.NewAsyncPusher(svc, 8, nil)

	pusher.Push(first)
	pusher.Push(second)
	pusher.Push(nil)

	ctx, cancel := context.WithCancel(context.Background())
	pusher.Start(ctx)
	cancel()
	pusher.Wait()

	pushed := pushedOrders(table)
	assert.Contains(t, pushed, first.ID().String())
	assert.Contains(t, pushed, second.ID().String())
}

func TestAsyncPusher_DropsWhenQueueIsFull(t *testing.T) {
	table := &blockingTable{memTable: newMemTable(), entered: make(chan struct{}), release: make(chan struct{})}
	orders := &memOrders{}
	for i := 0; i < 3; i++ {
		orders.orders = append(orders.orders, newOrder(t))
	}
	svc := mirror.NewService(table, people{}, orders, orders, nil)
	pusher := mirror.NewAsyncPusher(svc, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	pusher.Start(ctx)

	pusher.Push(orders.orders[0])
	<-table.entered
	pusher.Push(orders.orders[1])
	pusher.Push(orders.orders[2])

	close(table.release)
	cancel()
	pusher.Wait()

	pushed := pushedOrders(table.memTable)
	assert.Contains(t, pushed, orders.orders[0].ID().String())
	assert.Contains(t, pushed, orders.orders[1].ID().String())
	assert.NotContains(t, pushed, orders.orders[2].ID().String())
}
