// Package commands defines the kentchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init         Create the local RSA identity
//   - fingerprint  Print the identity fingerprint
//   - register     Publish your public key to a relay under a username
//   - trust        Fetch and pin a peer's public key
//   - peers        List pinned peers
//   - send         Seal and send a message
//   - recv         Fetch and open queued messages
//   - listen       Stream and open messages as they arrive
//   - chat         Talk to a peer directly over a websocket
//
// # Implementation
//
// The root command loads the configuration (defaults, then the YAML file,
// then flags), starts the subsystem loggers and builds the dependency graph
// (stores, services, relay client) before any subcommand runs.
package commands
