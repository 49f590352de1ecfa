package models

import "time"

// Participant represents a person taking part in the gift exchange.
// Index, Group, Name, Email and Message are fixed once the roster is loaded.
// Recipient is set exactly once by the assignment run.
type Participant struct {
	Index     int          `json:"index"`
	Name      string       `json:"name"`
	Group     string       `json:"group"`
	Email     string       `json:"email"`
	Message   string       `json:"message"`
	Recipient *Participant `json:"-"`
}

func (p *Participant) String() string {
	return p.Name
}

// Pairing is one giver/recipient line of a finished draw.
type Pairing struct {
	GiverIndex     int    `json:"giverIndex"`
	GiverName      string `json:"giverName"`
	RecipientIndex int    `json:"recipientIndex"`
	RecipientName  string `json:"recipientName"`
}

// Draw stores the outcome of a complete assignment run.
type Draw struct {
	ID       string    `json:"id"`
	Seed     int64     `json:"seed"`
	Pairings []Pairing `json:"pairings"`
	DrawnAt  time.Time `json:"drawnAt"`
}
