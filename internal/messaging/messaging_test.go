package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/menu"
	"tablebook/internal/order"
)

func placedRecord(t *testing.T) *order.OrderRecord {
	t.Helper()
	catalog, _, err := menu.BuildCatalog([]menu.Row{
		{"Category": "Biryani", "Item Name": "Chicken", "Price (₹)": "250", "Available": "Yes"},
		{"Category": "Drinks", "Item Name": "Lassi", "Price (₹)": "₹ 60", "Available": "Yes"},
	}, menu.DefaultSchema())
	require.NoError(t, err)

	record, err := order.NewAggregator(order.DefaultPolicy()).BuildOrder(catalog,
		[]order.SelectionLine{{ItemName: "Chicken", Quantity: 2}, {ItemName: "Lassi", Quantity: 1}},
		order.CustomerInfo{Name: "Asha", Phone: "9876543210", TableNumber: "7"},
	)
	require.NoError(t, err)
	return record
}

func TestNewOrderPlaced(t *testing.T) {
	record := placedRecord(t)

	ev := NewOrderPlaced(record)
	assert.Equal(t, EventOrderPlaced, ev.Event)
	assert.Equal(t, record.ID().String(), ev.OrderID)
	assert.Equal(t, "Asha", ev.CustomerName)
	assert.Equal(t, "7", ev.TableNumber)
	assert.Equal(t, "560.00", ev.Total)
	assert.Equal(t, "Chicken(2), Lassi(1)", ev.Summary)
	assert.Len(t, ev.Lines, 2)

	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "9876543210")
}

type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) NotifyOrderPlaced(context.Context, *order.OrderRecord) error {
	n.calls++
	return n.err
}

func TestFanoutNotifiesEveryone(t *testing.T) {
	boom := errors.New("broker down")
	first := &recordingNotifier{err: boom}
	second := &recordingNotifier{}

	err := Fanout{first, second}.NotifyOrderPlaced(context.Background(), placedRecord(t))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestFanoutEmpty(t *testing.T) {
	assert.NoError(t, Fanout{}.NotifyOrderPlaced(context.Background(), placedRecord(t)))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
}

func TestNewKafkaPublisherNeedsBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "orders")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "orders")
	require.NoError(t, err)
	assert.Equal(t, batchTimeout, p.writer.BatchTimeout)
	assert.Less(t, p.writer.BatchTimeout, 100*time.Millisecond)
	assert.NoError(t, p.Close())
}
