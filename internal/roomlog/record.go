package roomlog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fastjson"
)

// IDKind tells how an identifier appeared in the log line.
type IDKind int

const (
	KindMissing IDKind = iota
	KindString
	KindNumber
	// KindOther covers booleans, objects and arrays.
	KindOther
)

// ID is an opaque room or participant identifier. The recorder writes
// numbers, older logs carry strings; both are kept as written.
type ID struct {
	kind IDKind
	text string
	typ  fastjson.Type
}

// StringID returns a string identifier.
func StringID(s string) ID { return ID{kind: KindString, text: s} }

// NumberID returns a numeric identifier from its JSON text.
func NumberID(text string) ID { return ID{kind: KindNumber, text: text} }

// OtherID returns an identifier for any other JSON value, kept as its JSON
// text.
func OtherID(v *fastjson.Value) ID {
	return ID{kind: KindOther, text: v.String(), typ: v.Type()}
}

// Kind reports how the identifier was written.
func (id ID) Kind() IDKind { return id.kind }

// Missing reports whether the line carried no identifier.
func (id ID) Missing() bool { return id.kind == KindMissing }

// String returns the identifier as written, or "unknown" when missing.
func (id ID) String() string {
	if id.kind == KindMissing {
		return "unknown"
	}
	return id.text
}

// Key returns the grouping key. Numbers compare by value, so 7 and 7.0 are
// the same room while "7" is a different one.
func (id ID) Key() string {
	switch id.kind {
	case KindString:
		return "s:" + id.text
	case KindNumber:
		if f, err := strconv.ParseFloat(id.text, 64); err == nil {
			return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "n:" + id.text
	case KindOther:
		return "j:" + id.typ.String() + ":" + id.text
	default:
		return ""
	}
}

func (id ID) value(a *fastjson.Arena) *fastjson.Value {
	switch id.kind {
	case KindNumber:
		return a.NewNumberString(id.text)
	case KindString:
		return a.NewString(id.text)
	case KindOther:
		if v, err := fastjson.Parse(id.text); err == nil {
			return v
		}
		return a.NewNull()
	default:
		return a.NewNull()
	}
}

// member is one key of the source object with its JSON text.
type member struct {
	key   string
	value []byte
}

// Record is one decoded line of a room log. Records are values; nothing in
// the pipeline modifies one after Parse returns it.
type Record struct {
	RoomID        ID
	ParticipantID ID
	DisplayName   string
	Message       string
	Speech        string
	AudioFile     string

	// Time is the parsed instant. It is only meaningful when TimeErr is nil.
	Time    time.Time
	RawTime string
	TimeErr error

	// Line is the 1-based line number in the source text.
	Line int

	// members holds the source object as written, unknown keys included.
	members []member
}

// HasTime reports whether the record carries a usable timestamp.
func (r Record) HasTime() bool { return r.TimeErr == nil }

// Text returns the speech when present, otherwise the message.
func (r Record) Text() string {
	if r.Speech != "" {
		return r.Speech
	}
	return r.Message
}

// Problems lists the data-quality issues found on the record.
func (r Record) Problems() []error {
	var out []error
	if r.RoomID.Missing() {
		out = append(out, &MissingKeyError{Line: r.Line, Key: "RoomID"})
	}
	if r.ParticipantID.Missing() {
		out = append(out, &MissingKeyError{Line: r.Line, Key: "ParticipantID"})
	}
	if r.TimeErr != nil {
		out = append(out, r.TimeErr)
	}
	return out
}

// MarshalJSON writes the record back. Decoded records reproduce the source
// object member for member; records built in code emit their set fields.
func (r Record) MarshalJSON() ([]byte, error) {
	var a fastjson.Arena
	obj := a.NewObject()
	if r.members != nil {
		for _, m := range r.members {
			v, err := fastjson.ParseBytes(m.value)
			if err != nil {
				return nil, fmt.Errorf("marshal %s: %w", m.key, err)
			}
			obj.Set(m.key, v)
		}
		return obj.MarshalTo(nil), nil
	}

	if !r.RoomID.Missing() {
		obj.Set("RoomID", r.RoomID.value(&a))
	}
	if !r.ParticipantID.Missing() {
		obj.Set("ParticipantID", r.ParticipantID.value(&a))
	}
	texts := []struct{ key, value string }{
		{"DisplayName", r.DisplayName},
		{"Message", r.Message},
		{"AudioFile", r.AudioFile},
		{"Speech", r.Speech},
	}
	for _, t := range texts {
		if t.value != "" {
			obj.Set(t.key, a.NewString(t.value))
		}
	}
	switch {
	case r.RawTime != "":
		obj.Set("Time", a.NewString(r.RawTime))
	case !r.Time.IsZero():
		obj.Set("Time", a.NewString(r.Time.Format(time.RFC3339Nano)))
	}
	return obj.MarshalTo(nil), nil
}
