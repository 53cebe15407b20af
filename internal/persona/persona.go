// Package persona holds the companion's configurable identity.
package persona

import (
	"strings"
	"sync"
)

// Defaults
const (
	DefaultName        = "Waifu"
	DefaultAge         = "unknown"
	DefaultPersonality = "cheerful"
	DefaultCatchphrase = "Hello!"
)

// Confirmation messages returned by mutators
const (
	MsgUpdated = "Persona updated"
	MsgReset   = "Persona reset"
)

// Persona is a snapshot of the record's attributes
type Persona struct {
	Name        string `json:"name"`
	Age         string `json:"age"`
	Personality string `json:"personality"`
	Catchphrase string `json:"catchphrase"`
	HasAvatar   bool   `json:"has_avatar"`
}

// Fields carries an update; blank values leave the current attribute untouched
type Fields struct {
	Name        string `json:"name"`
	Age         string `json:"age"`
	Personality string `json:"personality"`
	Catchphrase string `json:"catchphrase"`
}

// Default returns the fixed default persona
func Default() Persona {
	return Persona{
		Name:        DefaultName,
		Age:         DefaultAge,
		Personality: DefaultPersonality,
		Catchphrase: DefaultCatchphrase,
	}
}

// Record is the mutable persona shared by request handlers
type Record struct {
	mu     sync.RWMutex
	p      Persona
	avatar []byte
}

// NewRecord creates a record holding the defaults
func NewRecord() *Record {
	return &Record{p: Default()}
}

// Update overwrites each field given a non-blank value
func (r *Record) Update(f Fields) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set(&r.p.Name, f.Name)
	set(&r.p.Age, f.Age)
	set(&r.p.Personality, f.Personality)
	set(&r.p.Catchphrase, f.Catchphrase)
	return MsgUpdated
}

func set(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// Reset restores the defaults and drops the avatar
func (r *Record) Reset() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.p = Default()
	r.avatar = nil
	return MsgReset
}

// Snapshot returns a copy of the current persona
func (r *Record) Snapshot() Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.p
	p.HasAvatar = len(r.avatar) > 0
	return p
}

// SetAvatar stores an encoded avatar image; nil clears it
func (r *Record) SetAvatar(png []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.avatar = png
}

// Avatar returns the encoded avatar, or nil when none is set
func (r *Record) Avatar() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.avatar
}
