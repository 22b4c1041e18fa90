package roomlog

// Participant groups the records of one participant inside a room.
type Participant struct {
	ID      ID
	Records []Record
}

// DisplayName returns the name from the participant's first record.
func (p *Participant) DisplayName() string {
	if len(p.Records) == 0 {
		return ""
	}
	return p.Records[0].DisplayName
}

// Room groups records by room, keeping both the flat arrival-ordered list and
// the per-participant split.
type Room struct {
	ID           ID
	Records      []Record
	Participants []*Participant

	byParticipant map[string]*Participant
}

// Participant looks up a participant by identifier.
func (r *Room) Participant(id ID) (*Participant, bool) {
	p, ok := r.byParticipant[id.Key()]
	return p, ok
}

// Index is the grouping of one load. Rooms appear in first-occurrence order
// and every record list keeps arrival order.
type Index struct {
	rooms   []*Room
	byRoom  map[string]*Room
	records int
}

// Build groups records in a single pass. Records without a RoomID or
// ParticipantID land in the unknown bucket of their level.
func Build(records []Record) *Index {
	ix := &Index{byRoom: make(map[string]*Room)}
	for _, rec := range records {
		key := rec.RoomID.Key()
		room, ok := ix.byRoom[key]
		if !ok {
			room = &Room{ID: rec.RoomID, byParticipant: make(map[string]*Participant)}
			ix.byRoom[key] = room
			ix.rooms = append(ix.rooms, room)
		}
		room.Records = append(room.Records, rec)

		pkey := rec.ParticipantID.Key()
		part, ok := room.byParticipant[pkey]
		if !ok {
			part = &Participant{ID: rec.ParticipantID}
			room.byParticipant[pkey] = part
			room.Participants = append(room.Participants, part)
		}
		part.Records = append(part.Records, rec)
		ix.records++
	}
	return ix
}

// Load parses data and groups the records. On error no index is returned.
func Load(data []byte, opts ParseOptions) (*Index, Result, error) {
	res, err := Parse(data, opts)
	if err != nil {
		return nil, Result{}, err
	}
	return Build(res.Records), res, nil
}

// Rooms returns the rooms in first-occurrence order.
func (ix *Index) Rooms() []*Room {
	if ix == nil {
		return nil
	}
	return ix.rooms
}

// Room looks up a room by identifier.
func (ix *Index) Room(id ID) (*Room, bool) {
	if ix == nil {
		return nil, false
	}
	r, ok := ix.byRoom[id.Key()]
	return r, ok
}

// Len returns the number of rooms.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.rooms)
}

// Records returns the number of grouped records.
func (ix *Index) Records() int {
	if ix == nil {
		return 0
	}
	return ix.records
}
