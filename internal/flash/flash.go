// Package flash carries one-shot messages across a redirect in a signed
// cookie.
package flash

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-recipes/internal/cookies"
)

const cookieName = "recipes_flash"

// Level classifies a message for styling.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Message is a single flash message.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Store reads and writes flash messages.
type Store struct {
	signer *cookies.Signer
}

// New returns a Store that signs its cookie with signer.
func New(signer *cookies.Signer) *Store {
	return &Store{signer: signer}
}

// Add queues msg for the next request, keeping messages the current request
// still carries.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, msg Message) error {
	messages := append(s.read(r), msg)
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	s.signer.Set(w, cookieName, string(payload), 0)
	return nil
}

// Success queues a success message.
func (s *Store) Success(w http.ResponseWriter, r *http.Request, text string) error {
	return s.Add(w, r, Message{Level: LevelSuccess, Text: text})
}

// Pop returns the queued messages and clears them. Missing or tampered
// cookies yield no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	messages := s.read(r)
	if len(messages) > 0 {
		s.signer.Delete(w, cookieName)
	}
	return messages
}

func (s *Store) read(r *http.Request) []Message {
	raw, err := s.signer.Get(r, cookieName)
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil
	}
	return messages
}
