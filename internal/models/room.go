package models

import "time"

// Room is a bookable space with a unique name and a seat capacity.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Building  string    `db:"building" json:"building"`
	Capacity  int       `db:"capacity" json:"capacity"`
	RoomType  *string   `db:"room_type" json:"room_type,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Fits reports whether the room seats the expected headcount.
func (r Room) Fits(expected int) bool {
	return r.Capacity >= expected
}
