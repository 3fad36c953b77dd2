// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (keys, envelopes, messages) and contracts
// (interfaces) only; the packet protocol itself lives in internal/protocol.
package domain
