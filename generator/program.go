package generator

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/settings"
)

// Reserved program.local indices.
const (
	// LocalLightDirection is the first of MaxLights indices holding the
	// normalized direction of each directional light.
	LocalLightDirection = 0
	// LocalRescale holds the normal rescale factor.
	LocalRescale = 40
	// LocalFog holds the fog factor coefficients.
	LocalFog = 41
	// LocalAlphaRef holds the alpha test reference value.
	LocalAlphaRef = 42
)

// IsReserved reports whether program.local[index] is written by generated
// bindings.
func IsReserved(index int) bool {
	switch {
	case index >= LocalLightDirection && index < LocalLightDirection+settings.MaxLights:
		return true
	case index == LocalRescale, index == LocalFog, index == LocalAlphaRef:
		return true
	}
	return false
}

// Program is one generated program: its source text and the bindings of
// the local parameters it reads.
type Program struct {
	Stage    gputypes.ShaderStage
	Source   string
	Bindings []binding.Descriptor
}

// code accumulates program text.
type code struct {
	sb       strings.Builder
	bindings []binding.Descriptor
}

func (c *code) text(s string) { c.sb.WriteString(s) }

func (c *code) linef(format string, args ...any) {
	fmt.Fprintf(&c.sb, format, args...)
	c.sb.WriteByte('\n')
}

func (c *code) bind(d binding.Descriptor) { c.bindings = append(c.bindings, d) }

func (c *code) program(stage gputypes.ShaderStage) Program {
	return Program{Stage: stage, Source: c.sb.String(), Bindings: c.bindings}
}
