package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/btcsuite/btclog"

	"kentchat/internal/relay"
	messagesvc "kentchat/internal/services/message"
	peersvc "kentchat/internal/services/peer"
	"kentchat/internal/store"
	"kentchat/internal/transport"
)

// Loggers per subsystem. All of them route to a single backend created by
// SetupLogging. When adding a subsystem, add it here, to subsystemLoggers
// and to useLogger.
var (
	backendLog *btclog.Backend

	cmdsLog = btclog.Disabled
	pcktLog = btclog.Disabled
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"CMDS": cmdsLog, // command handlers
	"PCKT": pcktLog, // packet diagnostics sink
	"MSGS": btclog.Disabled,
	"PEER": btclog.Disabled,
	"RLAY": btclog.Disabled,
	"STOR": btclog.Disabled,
	"TRNS": btclog.Disabled,
}

// useLogger updates the logger references for subsystemID to logger.
// Invalid subsystems are ignored.
func useLogger(subsystemID string, logger btclog.Logger) {
	if _, ok := subsystemLoggers[subsystemID]; !ok {
		return
	}
	subsystemLoggers[subsystemID] = logger

	switch subsystemID {
	case "CMDS":
		cmdsLog = logger
	case "PCKT":
		pcktLog = logger
	case "MSGS":
		messagesvc.UseLogger(logger)
	case "PEER":
		peersvc.UseLogger(logger)
	case "RLAY":
		relay.UseLogger(logger)
	case "STOR":
		store.UseLogger(logger)
	case "TRNS":
		transport.UseLogger(logger)
	}
}

// SetupLogging creates the backend on w and sets every subsystem to level.
func SetupLogging(w io.Writer, level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	backendLog = btclog.NewBackend(w)
	for _, id := range SubsystemIDs() {
		logger := backendLog.Logger(id)
		logger.SetLevel(lvl)
		useLogger(id, logger)
	}
	return nil
}

// SetLogLevel changes the level of one subsystem. Invalid subsystems and
// levels are ignored.
func SetLogLevel(subsystemID, level string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	if lvl, ok := btclog.LevelFromString(level); ok {
		logger.SetLevel(lvl)
	}
}

// SubsystemIDs returns the sorted subsystem identifiers.
func SubsystemIDs() []string {
	ids := make([]string, 0, len(subsystemLoggers))
	for id := range subsystemLoggers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Log returns the logger for subsystemID, or btclog.Disabled if it is
// unknown or logging has not been set up.
func Log(subsystemID string) btclog.Logger {
	if l, ok := subsystemLoggers[subsystemID]; ok {
		return l
	}
	return btclog.Disabled
}
