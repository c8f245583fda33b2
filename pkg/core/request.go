package core

import "github.com/joeydtaylor/btnify/pkg/button"

// ClickRequest is the POST / body.
type ClickRequest struct {
	ID      int            `json:"id"`
	Answers button.Answers `json:"answers"`
}

// Clicker is what the transport needs from a dispatcher. *Dispatcher[S]
// satisfies it for every S.
type Clicker interface {
	Dispatch(id int, answers button.Answers) button.Response
}
