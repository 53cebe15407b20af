// Package chat picks canned replies and keeps the conversation history.
package chat

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mrwolf/companion-server/internal/persona"
)

// Picker chooses replies uniformly at random from the dataset
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a picker seeded from seed; a zero seed uses the current time
func NewPicker(seed uint64) *Picker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewPickerWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewPickerWithSource creates a picker drawing from src
func NewPickerWithSource(src rand.Source) *Picker {
	return &Picker{rng: rand.New(src)}
}

// Pick returns a random dataset line, or the persona's catchphrase when the dataset is empty
func (p *Picker) Pick(dataset []string, who persona.Persona) string {
	if len(dataset) == 0 {
		return who.Catchphrase
	}

	p.mu.Lock()
	i := p.rng.IntN(len(dataset))
	p.mu.Unlock()
	return dataset[i]
}
