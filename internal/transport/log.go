package transport

import "github.com/btcsuite/btclog"

// log is disabled by default until the caller requests output via UseLogger.
var log = btclog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
