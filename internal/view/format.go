package view

import (
	"strings"
	"time"

	"github.com/five82/roomlog/internal/roomlog"
)

const (
	clockLayout = "15:04:05.000"
	badClock    = "--:--:--.---"
	badDate     = "Invalid Date"

	// DefaultDateLayout mirrors a browser's Date.toString output.
	DefaultDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// Role tags a span so the rendering layer can style it.
type Role int

const (
	RolePlain Role = iota
	RoleTime
	RoleName
	RoleText
	RoleEmphasis
	RoleAnnotation
)

// Span is a run of text with a single role.
type Span struct {
	Text string
	Role Role
}

// Line is one formatted event.
type Line struct {
	Spans []Span
	Kind  EventKind
}

// String returns the line without markup.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Formatter turns records into display lines.
type Formatter struct {
	// Location is used for full date-time stamps. Nil means time.Local.
	Location *time.Location
	// Layout is the full date-time layout. Empty means DefaultDateLayout.
	Layout string
}

// FormatRoomEvent renders "HH:MM:SS.mmm Name: text" with the clock in UTC and
// the speech preferred over the message.
func (f Formatter) FormatRoomEvent(r roomlog.Record) Line {
	clock := badClock
	if r.HasTime() {
		clock = r.Time.UTC().Format(clockLayout)
	}
	return Line{
		Kind: Classify(r.Message),
		Spans: []Span{
			{Text: clock, Role: RoleTime},
			{Text: " ", Role: RolePlain},
			{Text: r.DisplayName, Role: RoleName},
			{Text: ": ", Role: RolePlain},
			{Text: r.Text(), Role: RoleText},
		},
	}
}

// FormatParticipantEvent renders the message in bold followed by the full
// local date-time and, when present, the audio file.
func (f Formatter) FormatParticipantEvent(r roomlog.Record) Line {
	spans := []Span{
		{Text: "event: ", Role: RolePlain},
		{Text: r.Message, Role: RoleEmphasis},
		{Text: ", happened at: ", Role: RolePlain},
		{Text: f.dateTime(r), Role: RoleTime},
	}
	if r.AudioFile != "" {
		spans = append(spans, Span{Text: " AudioFile: " + r.AudioFile, Role: RoleAnnotation})
	}
	return Line{Kind: Classify(r.Message), Spans: spans}
}

func (f Formatter) dateTime(r roomlog.Record) string {
	if !r.HasTime() {
		return badDate
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return r.Time.In(loc).Format(layout)
}
