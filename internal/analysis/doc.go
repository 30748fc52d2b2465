// Package analysis defines the shared error taxonomy for the detection and
// timing components.
//
// Every failure a detector or the protocol engine can report is tagged with one
// of the exported sentinel errors so callers can classify conditions with
// errors.Is without parsing messages. Batch assembly treats detection sentinels
// as per-candidate drop conditions; parameter and registry sentinels indicate
// caller mistakes and surface immediately.
package analysis
