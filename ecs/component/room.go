package component

// Room tracks one generated room's spawn budget and its live-enemy roster
// count. Doors gated on this room stay closed until Alive hits zero.
type Room struct {
	Index   int
	Budget  int
	Alive   int
	Cleared bool
}

// RoomMember ties an enemy to the room that spawned it.
type RoomMember struct {
	Room int
}

var RoomComponent = NewComponent[Room]()
var RoomMemberComponent = NewComponent[RoomMember]()
