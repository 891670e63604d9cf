package domain

// Counter tracks how many used cups are waiting in a room. The record is
// created implicitly on the first increment; absence is equivalent to zero.
// It is reset to zero by fulfillment staff, never deleted.
type Counter struct {
	Room  string `json:"room" bson:"room"`
	Count int64  `json:"count" bson:"count"`
}
