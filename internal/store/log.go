package store

import "github.com/btcsuite/btclog"

// log is disabled by default until the caller requests output via UseLogger.
var log = btclog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
