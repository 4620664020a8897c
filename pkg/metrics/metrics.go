package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Embedded time-series store for operational gauges and counters,
// kept under the application workdir.

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

const (
	OrdersCreated    = "orders_created"
	OrdersCancelled  = "orders_cancelled"
	PaymentsSettled  = "payments_settled"
	PaymentsRejected = "payments_rejected"
)

// InitMetrics opens the metrics store under workdir/metrics
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	var err error
	storage, err = tstorage.NewStorage(
		tstorage.WithDataPath(path.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	return err
}

// SetGauge records an instantaneous value for a metric
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	insert(name, float64(value))
}

// IncrCounter increments a monotonic counter and records its value
func IncrCounter(name string) {
	mu.Lock()
	defer mu.Unlock()
	counters[name]++
	insert(name, float64(counters[name]))
}

func insert(name string, value float64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric: name,
			DataPoint: tstorage.DataPoint{
				Timestamp: time.Now().Unix(),
				Value:     value,
			},
		},
	})
}

// Select returns datapoints for a metric in [start, end]
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil, nil
	}
	return storage.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
