package waitqueue

// Role is the kind of access a client asks for.
type Role int

const (
	Reader Role = iota
	Writer
)

func (r Role) String() string {
	switch r {
	case Reader:
		return "reader"
	case Writer:
		return "writer"
	default:
		return "unknown"
	}
}
