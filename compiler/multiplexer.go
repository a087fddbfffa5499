package compiler

import "fmt"

// Multiplexer dispatches each source to the service registered for its
// model.
type Multiplexer struct {
	services map[Model]Service
}

// NewMultiplexer returns a multiplexer with no services.
func NewMultiplexer() *Multiplexer {
	return &Multiplexer{services: make(map[Model]Service)}
}

// Default returns a multiplexer that assembles both ARB models with a
// bank of bankSize slots and compiles WGSL without validation.
func Default(bankSize int) *Multiplexer {
	arb := NewARB(bankSize)
	m := NewMultiplexer()
	m.Register(ModelARBVertex, arb)
	m.Register(ModelARBFragment, arb)
	m.Register(ModelWGSL, NewWGSL(false))
	return m
}

// Register sets the service for model, replacing any previous one.
func (m *Multiplexer) Register(model Model, s Service) {
	m.services[model] = s
}

// Compile detects the model of source and hands it to its service.
func (m *Multiplexer) Compile(source string) (*Result, error) {
	model := DetectModel(source)
	s, ok := m.services[model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProgramModel, model)
	}
	return s.Compile(source)
}
