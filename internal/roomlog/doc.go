// Package roomlog decodes room logs and groups their records.
//
// # Input
//
// A room log is newline-delimited JSON, one object per line, as written by
// the video-room recorder:
//
//	{"RoomID":1234,"ParticipantID":42,"DisplayName":"Ann","Time":"2024-01-01T00:00:02Z","Message":"joined with camera"}
//	{"RoomID":1234,"ParticipantID":42,"DisplayName":"Ann","Time":"2024-01-01T00:00:09Z","Message":"speech","Speech":"hello","AudioFile":"1234/42-1.ogg"}
//
// Lines are trimmed and blank lines are ignored. Each remaining line is
// decoded on its own with fastjson; a line that is not a JSON object is a
// ParseError. Parse aborts on the first one unless ParseOptions.Lenient is
// set, in which case the line is reported in Result.Skipped.
//
// # Grouping
//
// Build produces an Index in one pass. Rooms are kept in first-occurrence
// order. Each Room holds its records in arrival order and the same records
// split by participant, again in first-occurrence order. Records without a
// RoomID or ParticipantID are grouped under an unknown bucket rather than
// dropped.
//
// # Data quality
//
// Records never fail to load because of their content. Missing keys and bad
// timestamps are reported through Record.Problems as MissingKeyError and
// TimeParseError values.
package roomlog
