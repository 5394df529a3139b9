package auth

import (
	"crypto/subtle"
	"sync"
)

// Validator checks API keys against a configured set.
type Validator struct {
	mu   sync.RWMutex
	keys []*KeyInfo
}

// NewValidator creates a validator for keys. Keys with an empty value are
// skipped.
func NewValidator(keys []*KeyInfo) *Validator {
	v := &Validator{}
	for _, k := range keys {
		if k != nil && k.Key != "" {
			v.keys = append(v.keys, k)
		}
	}
	return v
}

// Validate returns the KeyInfo for key. Every configured key is compared in
// constant time.
func (v *Validator) Validate(key string) (*KeyInfo, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	var match *KeyInfo
	for _, info := range v.keys {
		if subtle.ConstantTimeCompare([]byte(info.Key), []byte(key)) == 1 {
			match = info
		}
	}

	if match == nil {
		return nil, ErrInvalidKey
	}
	if !match.Enabled {
		return nil, ErrKeyDisabled
	}
	return match, nil
}

// Len returns the number of configured keys, enabled or not.
func (v *Validator) Len() int {
	if v == nil {
		return 0
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}

// Names returns the names of the configured keys.
func (v *Validator) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	names := make([]string, 0, len(v.keys))
	for _, k := range v.keys {
		names = append(names, k.Name)
	}
	return names
}
