package room

// Conn is the room's view of a member connection.
type Conn interface {
	Send(line string) error
	Close() error
}

// Join: issued once after the websocket is accepted
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
}

// Line: one frame received from a member
type Line struct {
	PlayerID string
	Text     string
}

// Leave: issued on disconnect
type Leave struct {
	PlayerID string
}

// Members: snapshot of everyone in the room, in join order
type Members struct {
	Reply chan<- []MemberInfo
}

type MemberInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Lives int    `json:"lives"`
	Dead  bool   `json:"dead"`
	Board []int  `json:"board,omitempty"`
}
