package main

import (
	"net/netip"
	"time"

	"github.com/rs/zerolog"

	"github.com/eclipse-ecal/ecaludp"
)

// runReceiver drains messages from the configured address and reports
// throughput once per log interval.
func runReceiver(cfg toolConfig, logger zerolog.Logger) error {
	addr, err := netip.ParseAddrPort(cfg.Addr)
	if err != nil {
		return err
	}

	transport, err := ecaludp.ListenUDP(addr)
	if err != nil {
		return err
	}
	defer transport.Close()

	socket := ecaludp.New(transport, [4]byte{'E', 'C', 'A', 'L'})
	socket.SetLogger(logger)
	socket.SetMaxReassemblyAge(cfg.ReassemblyAge)

	var messages, bytes int64
	lastReport := time.Now()

	for {
		message, _, err := socket.ReceiveFrom()
		if err != nil {
			return err
		}
		messages++
		bytes += int64(message.Size())
		message.Release()

		if elapsed := time.Since(lastReport); elapsed >= cfg.LogInterval {
			seconds := elapsed.Seconds()
			logger.Info().
				Float64("msg_per_s", float64(messages)/seconds).
				Float64("mbit_per_s", float64(bytes)*8/1e6/seconds).
				Msg("receiving")
			messages, bytes = 0, 0
			lastReport = time.Now()
		}
	}
}
