package domain

import (
	"net/mail"
	"strings"
	"time"
)

type Inquiry struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Company    string     `json:"company,omitempty"`
	Message    string     `json:"message"`
	RemoteAddr string     `json:"-"`
	Handled    bool       `json:"handled"`
	CreatedAt  time.Time  `json:"created_at"`
	HandledAt  *time.Time `json:"handled_at,omitempty"`
}

const (
	maxNameLen    = 200
	maxMessageLen = 5000
)

// Normalize trims every free-text field in place.
func (i *Inquiry) Normalize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.TrimSpace(i.Email)
	i.Company = strings.TrimSpace(i.Company)
	i.Message = strings.TrimSpace(i.Message)
}

func (i *Inquiry) Validate() error {
	if i.Name == "" || i.Message == "" {
		return &ValidationError{Message: "Name and message are required."}
	}
	if len(i.Name) > maxNameLen {
		return &ValidationError{Message: "Name is too long."}
	}
	if len(i.Message) > maxMessageLen {
		return &ValidationError{Message: "Message is too long."}
	}
	addr, err := mail.ParseAddress(i.Email)
	if err != nil || addr.Address != i.Email {
		return &ValidationError{Message: "Please enter a valid email address."}
	}
	return nil
}
