//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"runtime"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"boardscan-go/bus"
	"boardscan-go/services/bringup"
	"boardscan-go/services/config"
	"boardscan-go/services/discovery"
	"boardscan-go/services/heartbeat"
	"boardscan-go/setups"
	"boardscan-go/transport"
	"boardscan-go/x/logx"
)

const (
	ownerQueue = 8
	txTimeout  = 250 * time.Millisecond
)

func console(p setups.ResourcePlan) *logx.Printer {
	hw := uartx.UART0
	if len(p.UART) > 0 {
		u := p.UART[0]
		if u.ID == "uart1" {
			hw = uartx.UART1
		}
		if err := hw.Configure(uartx.UARTConfig{
			BaudRate: u.Baud,
			TX:       machine.Pin(u.TX),
			RX:       machine.Pin(u.RX),
		}); err != nil {
			println("[main] console configure failed:", err.Error())
		}
	}
	return logx.NewPrinter(hw, logx.LevelInfo)
}

func printMem(log logx.Logger) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	log.Infof("heap alloc=%d sys=%d mallocs=%d frees=%d", ms.HeapAlloc, ms.HeapSys, ms.Mallocs, ms.Frees)
}

func main() {
	time.Sleep(3 * time.Second)
	ctx := context.Background()

	board := setups.Selected
	log := console(board.Plan)
	log.Infof("[main] board %s", board.Name)

	plan, ok := board.I2C()
	if !ok {
		log.Errorf("[main] board %s has no plan for %s", board.Name, board.Scan.Bus)
		select {}
	}
	hw, err := transport.OpenMachine(plan.ID, plan.SDA, plan.SCL, plan.Hz)
	if err != nil {
		log.Errorf("[main] open %s: %v", plan.ID, err)
		select {}
	}
	owner := transport.NewOwner(hw, ownerQueue)
	defer owner.Close()

	log.Infof("[main] bootstrapping bus")
	b := bus.NewBus(4)

	config.NewConfigService(log.With("config")).
		Start(config.WithDevice(ctx, board.Name), b.NewConnection("config"))
	discovery.NewService(owner.Handle(txTimeout), log.With("discovery")).
		Start(ctx, b.NewConnection("discovery"))
	bringup.NewService(owner.Handle(txTimeout), log.With("bringup")).
		Start(ctx, b.NewConnection("bringup"))
	heartbeat.New(log.With("heartbeat")).
		Start(ctx, b.NewConnection("heartbeat"))

	mon := b.NewConnection("monitor").Subscribe(bringup.TopicDevices)
	for {
		select {
		case m := <-mon.Channel():
			log.Infof("[monitor] <- %s", m.Topic)
			printMem(log)
		case <-time.After(30 * time.Second):
			printMem(log)
		}
	}
}
