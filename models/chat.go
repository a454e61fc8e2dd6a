package models

// ChatTurn is a single (query, answer) pair in a session's history.
type ChatTurn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}
