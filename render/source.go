package render

import (
	"errors"
	"fmt"
	"slices"
)

// Source produces the frame input of an animated scene.
type Source interface {
	// Update fills in with the scene at t seconds since the animation started.
	// in is reset before the call.
	Update(t float32, in *Input) error
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(t float32, in *Input) error

func (f SourceFunc) Update(t float32, in *Input) error { return f(t, in) }

// ErrUnknownSource is returned by [Registry.New] for unregistered names.
var ErrUnknownSource = errors.New("unknown scene source")

// Registry maps names to source constructors. The zero value is ready to use.
type Registry struct {
	ctors map[string]func() Source
}

// Register adds a named source constructor. Registering a name twice is an error.
func (r *Registry) Register(name string, newSource func() Source) error {
	if name == "" || newSource == nil {
		return errors.New("source registration needs a name and constructor")
	}
	if _, ok := r.ctors[name]; ok {
		return fmt.Errorf("scene source %q already registered", name)
	}
	if r.ctors == nil {
		r.ctors = make(map[string]func() Source)
	}
	r.ctors[name] = newSource
	return nil
}

// New returns a fresh source registered under name.
func (r *Registry) New(name string) (Source, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, have %v", ErrUnknownSource, name, r.Names())
	}
	return ctor(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Frame updates in from src at time t and renders it.
func (r *Renderer) Frame(src Source, t float32, in *Input, width, height int) error {
	in.Reset()
	if err := src.Update(t, in); err != nil {
		return fmt.Errorf("scene update: %w", err)
	}
	return r.Render(in, width, height)
}
