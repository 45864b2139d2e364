// Package notify delivers best-effort webhook notifications whenever a
// write recomputes one or more cells. It knows nothing about formulas,
// graphs, or cell contents — CellUpdate carries only the display
// strings a subscriber needs, so the workbook package can depend on
// notify without notify depending back on workbook.
package notify

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	json "github.com/bytedance/sonic"

	"github.com/MasterFire41604/Spreadsheet-Program/internal/enginelog"
)

// DefaultWorkerCount matches the teacher's fan-out: enough workers to
// keep webhook latency off the write path without unbounded goroutines.
const DefaultWorkerCount = 5

// DefaultQueueSize bounds how many pending deliveries Notify may queue
// before it starts blocking the caller.
const DefaultQueueSize = 20

// CellUpdate is a delivery-ready snapshot of one recomputed cell.
type CellUpdate struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	IsError bool   `json:"isError"`
}

type sendCommand struct {
	url    string
	update CellUpdate
}

// Dispatcher fans notifications for subscribed cells out to worker
// goroutines that deliver them over HTTP, fire-and-forget, with no
// retries. A Dispatcher must be started with Start before Notify will
// make progress, and closed with Close to release its workers. At most
// one webhook URL is tracked per cell, mirroring the teacher's
// SetWebhookUrl/GetWebhookUrl map.
type Dispatcher struct {
	queue       chan sendCommand
	workerCount int
	subscribers map[string]string // cell name -> webhook URL
	client      *http.Client
	log         *slog.Logger
}

// NewDispatcher constructs a Dispatcher with the given queue depth and
// worker count. A zero or negative queueSize falls back to
// DefaultQueueSize; a zero or negative workerCount falls back to
// DefaultWorkerCount. A nil logger falls back to enginelog.Discard.
func NewDispatcher(queueSize, workerCount int, log *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	if log == nil {
		log = enginelog.Discard()
	}
	return &Dispatcher{
		queue:       make(chan sendCommand, queueSize),
		workerCount: workerCount,
		subscribers: make(map[string]string),
		client:      &http.Client{Timeout: 5 * time.Second},
		log:         log,
	}
}

// Subscribe registers url as the webhook for cellName, replacing any
// prior URL for that cell. Subscribing with an empty url is equivalent
// to Unsubscribe.
func (d *Dispatcher) Subscribe(cellName, url string) {
	if url == "" {
		d.Unsubscribe(cellName)
		return
	}
	d.subscribers[cellName] = url
}

// Unsubscribe removes cellName's webhook, if any.
func (d *Dispatcher) Unsubscribe(cellName string) {
	delete(d.subscribers, cellName)
}

// Start launches workerCount delivery workers. Calling Start more than
// once launches additional workers pulling from the same queue.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workerCount; i++ {
		go d.runWorker()
	}
}

// Close shuts the queue down; workers drain pending deliveries and exit.
// Notify must not be called again after Close.
func (d *Dispatcher) Close() {
	close(d.queue)
}

// Notify enqueues a delivery for every update whose cell has a
// subscribed webhook. While the queue is full, the channel send blocks
// until a worker takes a pending delivery; a cell with no subscriber
// costs nothing.
func (d *Dispatcher) Notify(updates []CellUpdate) {
	for _, update := range updates {
		url, ok := d.subscribers[update.Name]
		if !ok {
			continue
		}
		d.queue <- sendCommand{url: url, update: update}
	}
}

func (d *Dispatcher) runWorker() {
	for cmd := range d.queue {
		payload, err := json.Marshal(cmd.update)
		if err != nil {
			d.log.Error("marshal webhook payload", "cell", cmd.update.Name, "error", err)
			continue
		}

		resp, err := d.client.Post(cmd.url, "application/json", bytes.NewReader(payload))
		if err != nil {
			d.log.Warn("webhook delivery failed", "url", cmd.url, "cell", cmd.update.Name, "error", err)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			d.log.Warn("webhook rejected", "url", cmd.url, "cell", cmd.update.Name, "status", resp.Status)
		}
	}
}
