package transport

import (
	"sync"
	"time"

	"boardscan-go/errcode"
)

// request posted to the per-bus worker
type txReq struct {
	addr uint16
	w, r []byte
	done chan error // buffered(1); worker replies best-effort
}

// Owner serialises every transaction on one bus through a single worker
// goroutine, so the scanner and the drivers brought up after it can share
// the bus from different goroutines.
type Owner struct {
	hw   Bus
	reqs chan txReq
	quit chan struct{}
	once sync.Once
}

// NewOwner starts the worker for hw. queueLen <= 0 selects 16.
func NewOwner(hw Bus, queueLen int) *Owner {
	if queueLen <= 0 {
		queueLen = 16
	}
	o := &Owner{
		hw:   hw,
		reqs: make(chan txReq, queueLen),
		quit: make(chan struct{}),
	}
	go o.loop()
	return o
}

func (o *Owner) loop() {
	for {
		select {
		case req := <-o.reqs:
			err := o.hw.Tx(req.addr, req.w, req.r)
			// best-effort reply; do not block the worker
			select {
			case req.done <- err:
			default:
			}
		case <-o.quit:
			return
		}
	}
}

// Close stops the worker. Pending callers time out or block per their handle.
func (o *Owner) Close() { o.once.Do(func() { close(o.quit) }) }

// Handle returns a Bus bound to the owner. timeout bounds both the enqueue
// and the completion wait; 0 waits forever.
func (o *Owner) Handle(timeout time.Duration) Bus {
	return &ownedBus{o: o, timeout: timeout}
}

type ownedBus struct {
	o       *Owner
	timeout time.Duration // 0 => no deadline
}

var _ Bus = (*ownedBus)(nil)

func (d *ownedBus) Tx(addr uint16, w, r []byte) error {
	req := txReq{addr: addr, w: w, r: r, done: make(chan error, 1)}

	if d.timeout <= 0 {
		select {
		case d.o.reqs <- req:
		case <-d.o.quit:
			return errcode.NotReady
		}
		select {
		case err := <-req.done:
			return err
		case <-d.o.quit:
			return errcode.NotReady
		}
	}

	t := time.NewTimer(d.timeout)
	defer t.Stop()
	select {
	case d.o.reqs <- req:
	case <-t.C:
		return errcode.Busy
	case <-d.o.quit:
		return errcode.NotReady
	}
	select {
	case err := <-req.done:
		return err
	case <-t.C:
		return errcode.Timeout
	}
}
