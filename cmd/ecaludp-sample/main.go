package main

import (
	"net/netip"
	"os"
	"time"

	"github.com/eclipse-ecal/ecaludp"
	"github.com/eclipse-ecal/ecaludp/internal/observability"
)

// Sends a greeting to itself once a second and prints what arrives.
func main() {
	logger := observability.InitLogger("ecaludp-sample")

	addr := netip.MustParseAddrPort("127.0.0.1:14000")

	transport, err := ecaludp.ListenUDP(addr)
	if err != nil {
		logger.Fatal().Err(err).Msg("bind failed")
	}

	socket := ecaludp.New(transport, [4]byte{'E', 'C', 'A', 'L'})
	socket.SetLogger(logger)

	go func() {
		for {
			message, sender, err := socket.ReceiveFrom()
			if err != nil {
				logger.Error().Err(err).Msg("receive failed")
				os.Exit(1)
			}
			logger.Info().
				Stringer("sender", sender).
				Str("message", string(message.Bytes())).
				Msg("received")
			message.Release()
		}
	}()

	payload := [][]byte{[]byte("Hello World!")}
	for {
		if _, err := socket.SendTo(payload, addr); err != nil {
			logger.Fatal().Err(err).Msg("send failed")
		}
		time.Sleep(time.Second)
	}
}
