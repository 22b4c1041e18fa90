// Package view turns a grouped room log into display nodes.
//
// Render is a pure function from a roomlog.Index to a flat []Node. Only the
// caller (the TUI or WriteText) touches concrete output. Two layouts exist:
// VariantRoom sorts each room's events by time and prints a UTC clock,
// VariantParticipant lists participants in arrival order with full local
// date-times.
package view
