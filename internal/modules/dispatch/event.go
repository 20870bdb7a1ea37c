package dispatch

// Kind selects the handler for an inbound event.
type Kind string

const (
	KindStart     Kind = "start"
	KindWebSearch Kind = "websearch"
	KindContact   Kind = "contact"
	KindPhoto     Kind = "photo"
	KindText      Kind = "text"
	// KindIgnored covers updates no handler claims (unknown commands, stickers, edits).
	KindIgnored Kind = "ignored"
)

// Event is one inbound update reduced to what the handlers need.
// Only the payload field matching Kind is meaningful.
type Event struct {
	Kind     Kind
	UpdateID int
	ChatID   int64
	Sender   Sender

	Text    string
	Args    []string
	Contact *Contact
	// Photos are ordered from smallest to largest resolution.
	Photos []PhotoVariant
}

type Sender struct {
	ID        int64
	FirstName string
	Username  string
}

type Contact struct {
	PhoneNumber string
}

type PhotoVariant struct {
	FileID   string
	Width    int
	Height   int
	FileSize int
}

// AccountID is the sender's id, or the chat id when the update has no sender.
func (e Event) AccountID() int64 {
	if e.Sender.ID != 0 {
		return e.Sender.ID
	}
	return e.ChatID
}
