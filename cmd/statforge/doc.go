// Package main hosts the statforge CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the detection pipeline against local
// recordings, computes protocol metrics from manual markers, and manages the
// session store. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
