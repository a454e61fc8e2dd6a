// Package session wraps the cookie-backed gin session in an explicit state
// object with append/clear operations, instead of handlers mutating session
// keys directly.
package session

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/docuchat/ragserver/models"
)

const (
	keyLoggedIn = "logged_in"
	keyHistory  = "chat_history"
)

func init() {
	// The cookie store serializes values with gob.
	gob.Register(models.ChatTurn{})
	gob.Register([]models.ChatTurn{})
}

// State is the per-caller session state: a logged-in flag and an ordered
// chat history. All mutations are buffered until Save.
type State struct {
	sess sessions.Session
}

// FromContext returns the state for the current request's session.
func FromContext(c *gin.Context) *State {
	return &State{sess: sessions.Default(c)}
}

func (s *State) LoggedIn() bool {
	v, ok := s.sess.Get(keyLoggedIn).(bool)
	return ok && v
}

func (s *State) SetLoggedIn() {
	s.sess.Set(keyLoggedIn, true)
}

// History returns the session's chat turns in call order.
func (s *State) History() []models.ChatTurn {
	turns, ok := s.sess.Get(keyHistory).([]models.ChatTurn)
	if !ok {
		return nil
	}
	return turns
}

// AppendTurn adds a turn to the history and returns the updated list.
func (s *State) AppendTurn(turn models.ChatTurn) []models.ChatTurn {
	history := append(s.History(), turn)
	s.sess.Set(keyHistory, history)
	return history
}

// Clear drops everything in the session, history included.
func (s *State) Clear() {
	s.sess.Clear()
}

func (s *State) Save() error {
	return s.sess.Save()
}
