package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/roomlog/internal/roomlog"
)

// Variant selects how rooms are laid out.
type Variant int

const (
	// VariantRoom lists each room's events sorted by time.
	VariantRoom Variant = iota
	// VariantParticipant splits each room by participant in arrival order.
	VariantParticipant
)

func (v Variant) String() string {
	if v == VariantParticipant {
		return "participant"
	}
	return "room"
}

// Next returns the other variant.
func (v Variant) Next() Variant {
	if v == VariantParticipant {
		return VariantRoom
	}
	return VariantParticipant
}

// ParseVariant accepts "room" or "participant"; anything else is an error.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "room":
		return VariantRoom, nil
	case "participant", "participants":
		return VariantParticipant, nil
	default:
		return VariantRoom, fmt.Errorf("unknown variant %q", s)
	}
}

// NodeKind identifies a render node.
type NodeKind int

const (
	NodeRoom NodeKind = iota
	NodeParticipant
	NodeEvent
)

// Node is one element of the rendered view. Headers carry Text, events carry
// Line and their 1-based position in the enclosing list.
type Node struct {
	Kind    NodeKind
	Depth   int
	Text    string
	Line    Line
	Ordinal int
	Record  roomlog.Record
}

// Options configures Render.
type Options struct {
	Variant   Variant
	Formatter Formatter
}

// Render walks the index in room order and returns the view as a flat node
// sequence. It has no side effects; callers replace whatever they showed
// before with the result.
func Render(ix *roomlog.Index, opts Options) []Node {
	var nodes []Node
	for _, room := range ix.Rooms() {
		switch opts.Variant {
		case VariantParticipant:
			nodes = renderParticipants(nodes, room, opts.Formatter)
		default:
			nodes = renderRoom(nodes, room, opts.Formatter)
		}
	}
	return nodes
}

func renderRoom(nodes []Node, room *roomlog.Room, f Formatter) []Node {
	nodes = append(nodes, Node{
		Kind: NodeRoom,
		Text: fmt.Sprintf("Room id is %s. List of events:", room.ID),
	})
	for i, rec := range SortByTime(room.Records) {
		nodes = append(nodes, Node{
			Kind:    NodeEvent,
			Depth:   1,
			Line:    f.FormatRoomEvent(rec),
			Ordinal: i + 1,
			Record:  rec,
		})
	}
	return nodes
}

func renderParticipants(nodes []Node, room *roomlog.Room, f Formatter) []Node {
	names := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		if len(p.Records) > 0 {
			names = append(names, participantLabel(p))
		}
	}
	nodes = append(nodes, Node{
		Kind: NodeRoom,
		Text: fmt.Sprintf("Room id is %s. List of participants: %s", room.ID, strings.Join(names, ", ")),
	})
	for _, p := range room.Participants {
		if len(p.Records) == 0 {
			continue
		}
		nodes = append(nodes, Node{
			Kind:  NodeParticipant,
			Depth: 1,
			Text:  fmt.Sprintf("%s (id: %s)", participantLabel(p), p.ID),
		})
		for i, rec := range p.Records {
			nodes = append(nodes, Node{
				Kind:    NodeEvent,
				Depth:   2,
				Line:    f.FormatParticipantEvent(rec),
				Ordinal: i + 1,
				Record:  rec,
			})
		}
	}
	return nodes
}

func participantLabel(p *roomlog.Participant) string {
	if name := strings.TrimSpace(p.DisplayName()); name != "" {
		return name
	}
	return "unnamed"
}

// SortByTime returns a time-ordered copy of records. Times are compared to
// the millisecond, the precision the clock column shows; equal timestamps
// keep their input order and records without a usable time come first.
func SortByTime(records []roomlog.Record) []roomlog.Record {
	sorted := make([]roomlog.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case !a.HasTime():
			return b.HasTime()
		case !b.HasTime():
			return false
		default:
			return a.Time.UnixMilli() < b.Time.UnixMilli()
		}
	})
	return sorted
}
