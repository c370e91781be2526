// Package templates holds the process-wide, immutable template registry:
// named sources compiled into the binary at build time, never mutated at
// runtime, looked up by the rendering engine's `typst://templates/` source
// resolution and listed by the `list_templates` tool.
package templates

import (
	"errors"
	"sort"
)

// ErrTemplateNotFound is returned by GetSource for an unregistered name.
var ErrTemplateNotFound = errors.New("templates: template not found")

// Metadata describes one registered template without its source body —
// what List returns.
type Metadata struct {
	Name           string
	Description    string
	URI            string
	RequiredInputs []string
	OptionalInputs []string
}

type entry struct {
	Metadata
	source string
}

// Registry is an immutable, process-wide collection built once via New and
// never mutated afterward; concurrent reads need no locking.
type Registry struct {
	byName map[string]entry
	order  []string
}

// Definition is the input shape used to build a Registry: one per template.
type Definition struct {
	Name           string
	Description    string
	RequiredInputs []string
	OptionalInputs []string
	Source         string
}

const uriPrefix = "typst://templates/"

// New builds an immutable registry from defs.
func New(defs []Definition) *Registry {
	r := &Registry{byName: make(map[string]entry, len(defs))}
	for _, d := range defs {
		r.byName[d.Name] = entry{
			Metadata: Metadata{
				Name:           d.Name,
				Description:    d.Description,
				URI:            uriPrefix + d.Name,
				RequiredInputs: d.RequiredInputs,
				OptionalInputs: d.OptionalInputs,
			},
			source: d.Source,
		}
		r.order = append(r.order, d.Name)
	}
	sort.Strings(r.order)
	return r
}

// GetSource satisfies render.TemplateRegistry: it returns the template's
// source text or ErrTemplateNotFound.
func (r *Registry) GetSource(name string) (string, error) {
	e, ok := r.byName[name]
	if !ok {
		return "", ErrTemplateNotFound
	}
	return e.source, nil
}

// List returns metadata for every registered template, name-ordered.
func (r *Registry) List() []Metadata {
	out := make([]Metadata, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Metadata)
	}
	return out
}

// Get returns one template's metadata or ErrTemplateNotFound.
func (r *Registry) Get(name string) (Metadata, error) {
	e, ok := r.byName[name]
	if !ok {
		return Metadata{}, ErrTemplateNotFound
	}
	return e.Metadata, nil
}
