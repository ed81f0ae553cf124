package fiadvisor

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var personasYAML []byte

// Persona is a synthetic user of the Fi backend, selected by its phone number.
type Persona struct {
	Name  string `yaml:"name" json:"name"`
	Phone string `yaml:"phone" json:"phone"`
}

func (p Persona) String() string { return fmt.Sprintf("%s (%s)", p.Name, p.Phone) }

var personas = mustDecodePersonas(personasYAML)

func mustDecodePersonas(data []byte) []Persona {
	list, err := DecodePersonas(data)
	if err != nil {
		panic(err)
	}
	return list
}

// DecodePersonas reads a YAML list of personas.
func DecodePersonas(data []byte) ([]Persona, error) {
	var list []Persona
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("could not decode personas: %w", err)
	}
	for i, p := range list {
		if p.Name == "" || p.Phone == "" {
			return nil, fmt.Errorf("persona #%d: name and phone are required", i+1)
		}
	}
	return list, nil
}

// Personas returns the built-in catalog, in display order.
func Personas() []Persona {
	return append([]Persona(nil), personas...)
}

// LookupPersona finds a persona by name (case insensitive) or by phone.
// Several personas may share a phone number, the first one wins.
func LookupPersona(nameOrPhone string) (Persona, bool) {
	key := strings.TrimSpace(nameOrPhone)
	for _, p := range personas {
		if p.Phone == key || strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Persona{}, false
}

// ResolvePersona is like LookupPersona but falls back to an anonymous persona
// whose name is the phone itself, so that any backend dataset can be reached.
func ResolvePersona(nameOrPhone string) Persona {
	if p, ok := LookupPersona(nameOrPhone); ok {
		return p
	}
	key := strings.TrimSpace(nameOrPhone)
	return Persona{Name: key, Phone: key}
}
