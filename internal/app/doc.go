// Package app wires application dependencies for the CLIs.
//
// It loads Config from defaults, an optional YAML file and flag overrides,
// sets up the btclog subsystem loggers, and builds the concrete stores,
// relay client and high-level services, exposing them via App for
// commands to use.
package app
