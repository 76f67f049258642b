package main

import (
	"net/netip"
	"time"

	"github.com/rs/zerolog"

	"github.com/eclipse-ecal/ecaludp"
)

// runSender pushes fixed-size messages at the destination as fast as the
// transport accepts them and reports throughput once per log interval.
func runSender(cfg toolConfig, logger zerolog.Logger) error {
	dest, err := netip.ParseAddrPort(cfg.Addr)
	if err != nil {
		return err
	}

	transport, err := ecaludp.ListenUDP(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	if err != nil {
		return err
	}
	defer transport.Close()

	socket := ecaludp.New(transport, [4]byte{'E', 'C', 'A', 'L'})
	socket.SetLogger(logger)
	socket.SetMaxDatagramSize(cfg.MaxDatagramSize)

	payload := make([]byte, cfg.MessageSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	message := [][]byte{payload}

	var messages, bytes int64
	lastReport := time.Now()

	for {
		n, err := socket.SendTo(message, dest)
		if err != nil {
			return err
		}
		messages++
		bytes += int64(n)

		if elapsed := time.Since(lastReport); elapsed >= cfg.LogInterval {
			seconds := elapsed.Seconds()
			logger.Info().
				Float64("msg_per_s", float64(messages)/seconds).
				Float64("mbit_per_s", float64(bytes)*8/1e6/seconds).
				Msg("sending")
			messages, bytes = 0, 0
			lastReport = time.Now()
		}
	}
}
