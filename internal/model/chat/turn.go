package chat

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged message of a transcript. Turns are never mutated
// after creation; order within a transcript is conversational order.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserTurn builds a turn spoken by the user.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// ModelTurn builds a turn produced by the remote model.
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Text: text}
}

// Clone returns a copy of turns that shares no backing array with the input.
func Clone(turns []Turn) []Turn {
	copied := make([]Turn, len(turns))
	copy(copied, turns)
	return copied
}
