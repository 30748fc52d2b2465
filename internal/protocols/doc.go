// Package protocols converts validated marker timestamps into timing metrics.
//
// A closed set of protocol variants (catcher pop time, pitcher time to plate,
// infield transfer, outfield glove-to-release, hitting load-to-contact) is
// registered once in a read-only registry keyed by analysis type. Each protocol
// declares its allowed positions and an ordered marker list; markers must be
// present and strictly increasing in declared order. The pop-time arithmetic
// shared by manual and auto-detected workflows lives here as well.
package protocols
