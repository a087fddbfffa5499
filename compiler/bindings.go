package compiler

import (
	"fmt"
	"strings"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/device"
)

// part is one component of a dotted operand path such as
// state.light[0].position or state.matrix.modelview.row[0..3].
type part struct {
	name  string
	index int // -1 when the component has no [n]
	end   int // last row of an [a..b] range, otherwise equal to index
}

func (p part) indexed() bool { return p.index >= 0 }

type path []part

func (p path) String() string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(c.name)
		switch {
		case c.index >= 0 && c.end != c.index:
			fmt.Fprintf(&sb, "[%d..%d]", c.index, c.end)
		case c.index >= 0:
			fmt.Fprintf(&sb, "[%d]", c.index)
		}
	}
	return sb.String()
}

// deviceRef is a device vector, or one matrix row, read by a state binding.
type deviceRef struct {
	key uint32
	row int
}

// stateBinding resolves the components after "state." into the device
// vectors they read. Matrices without a row selector expand to four rows.
func stateBinding(p path) ([]deviceRef, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("incomplete state binding")
	}
	head, rest := p[0], p[1:]
	switch head.name {
	case "material":
		if head.indexed() {
			return nil, fmt.Errorf("material takes no index")
		}
		face, rest := faceOf(rest)
		prop, ok := materialProps[single(rest)]
		if !ok {
			return nil, fmt.Errorf("unknown material property %q", path(rest))
		}
		return vector(device.Material(face, prop)), nil

	case "light":
		i, err := unitIndex(head, device.MaxLights, false)
		if err != nil {
			return nil, err
		}
		name := single(rest)
		if len(rest) == 2 && rest[0].name == "spot" && !rest[0].indexed() && rest[1].name == "direction" && !rest[1].indexed() {
			name = "spot.direction"
		}
		prop, ok := lightProps[name]
		if !ok {
			return nil, fmt.Errorf("unknown light property %q", path(rest))
		}
		return vector(device.Light(i, prop)), nil

	case "lightmodel":
		if head.indexed() {
			return nil, fmt.Errorf("lightmodel takes no index")
		}
		if single(rest) == "ambient" {
			return vector(device.LightModelAmbient), nil
		}
		face, rest := faceOf(rest)
		if single(rest) != "scenecolor" {
			return nil, fmt.Errorf("unknown lightmodel property %q", path(rest))
		}
		if face == device.Back {
			return vector(device.SceneColorBack), nil
		}
		return vector(device.SceneColorFront), nil

	case "lightprod":
		i, err := unitIndex(head, device.MaxLights, false)
		if err != nil {
			return nil, err
		}
		face, rest := faceOf(rest)
		prop, ok := productProps[single(rest)]
		if !ok {
			return nil, fmt.Errorf("unknown lightprod property %q", path(rest))
		}
		return vector(device.LightProduct(i, face, prop)), nil

	case "texgen":
		unit, err := unitIndex(head, device.MaxTextureUnits, true)
		if err != nil {
			return nil, err
		}
		if len(rest) != 2 || rest[0].indexed() || rest[1].indexed() {
			return nil, fmt.Errorf("unknown texgen plane %q", path(rest))
		}
		plane, ok := texGenPlanes[rest[0].name+"."+rest[1].name]
		if !ok {
			return nil, fmt.Errorf("unknown texgen plane %q", path(rest))
		}
		return vector(device.TexGen(unit, plane)), nil

	case "fog":
		switch single(rest) {
		case "color":
			return vector(device.FogColor), nil
		case "params":
			return vector(device.FogParams), nil
		}
		return nil, fmt.Errorf("unknown fog property %q", path(rest))

	case "texenv":
		unit, err := unitIndex(head, device.MaxTextureUnits, true)
		if err != nil {
			return nil, err
		}
		if single(rest) != "color" {
			return nil, fmt.Errorf("unknown texenv property %q", path(rest))
		}
		return vector(device.TexEnvColor(unit)), nil

	case "matrix":
		return matrixBinding(rest)
	}
	return nil, fmt.Errorf("unsupported state binding %q", head.name)
}

var materialProps = map[string]device.MaterialProperty{
	"ambient":   device.MaterialAmbient,
	"diffuse":   device.MaterialDiffuse,
	"specular":  device.MaterialSpecular,
	"emission":  device.MaterialEmission,
	"shininess": device.MaterialShininess,
}

var lightProps = map[string]device.LightProperty{
	"ambient":        device.LightAmbient,
	"diffuse":        device.LightDiffuse,
	"specular":       device.LightSpecular,
	"position":       device.LightPosition,
	"attenuation":    device.LightAttenuation,
	"spot.direction": device.LightSpotDirection,
	"half":           device.LightHalf,
}

var productProps = map[string]device.ProductProperty{
	"ambient":  device.ProductAmbient,
	"diffuse":  device.ProductDiffuse,
	"specular": device.ProductSpecular,
}

var texGenPlanes = map[string]device.TexGenPlane{
	"eye.s":    device.EyeS,
	"eye.t":    device.EyeT,
	"eye.r":    device.EyeR,
	"eye.q":    device.EyeQ,
	"object.s": device.ObjectS,
	"object.t": device.ObjectT,
	"object.r": device.ObjectR,
	"object.q": device.ObjectQ,
}

var matrixNames = map[string]device.MatrixID{
	"modelview":  device.Modelview,
	"projection": device.Projection,
	"mvp":        device.MVP,
	"texture":    device.TextureMatrix,
}

var matrixKinds = map[string]device.MatrixKind{
	"inverse":   device.Inverse,
	"transpose": device.Transpose,
	"invtrans":  device.InverseTranspose,
}

func matrixBinding(p path) ([]deviceRef, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("incomplete matrix binding")
	}
	id, ok := matrixNames[p[0].name]
	if !ok {
		return nil, fmt.Errorf("unknown matrix %q", p[0].name)
	}
	unit, err := unitIndex(p[0], id.Units(), true)
	if err != nil {
		return nil, err
	}
	rest := p[1:]
	kind := device.Plain
	if len(rest) > 0 && !rest[0].indexed() {
		if k, ok := matrixKinds[rest[0].name]; ok {
			kind = k
			rest = rest[1:]
		}
	}
	first, last := 0, 3
	switch {
	case len(rest) == 0:
	case len(rest) == 1 && rest[0].name == "row" && rest[0].indexed():
		first, last = rest[0].index, rest[0].end
		if last > 3 || first > last {
			return nil, fmt.Errorf("matrix row range [%d..%d] out of bounds", first, last)
		}
	default:
		return nil, fmt.Errorf("unknown matrix selector %q", path(rest))
	}
	key := binding.MatrixKey(id, kind, unit)
	refs := make([]deviceRef, 0, last-first+1)
	for r := first; r <= last; r++ {
		refs = append(refs, deviceRef{key: key, row: r})
	}
	return refs, nil
}

func vector(id device.VectorID) []deviceRef {
	return []deviceRef{{key: binding.VectorKey(id)}}
}

// faceOf strips an optional front/back selector.
func faceOf(p path) (int, path) {
	if len(p) > 0 && !p[0].indexed() {
		switch p[0].name {
		case "front":
			return device.Front, p[1:]
		case "back":
			return device.Back, p[1:]
		}
	}
	return device.Front, p
}

// single returns the name of a one-component, unindexed path.
func single(p path) string {
	if len(p) != 1 || p[0].indexed() {
		return ""
	}
	return p[0].name
}

// unitIndex validates the [n] of a component. Optional indices default
// to zero.
func unitIndex(p part, limit int, optional bool) (int, error) {
	if !p.indexed() {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("%s requires an index", p.name)
	}
	if p.end != p.index {
		return 0, fmt.Errorf("%s does not take a range", p.name)
	}
	if p.index >= limit {
		return 0, fmt.Errorf("%s[%d] out of range", p.name, p.index)
	}
	return p.index, nil
}

// Input and output register numbers of the assembly models.
var (
	vertexInputs = map[string]int{
		"position":  0,
		"weight":    1,
		"normal":    2,
		"color":     3,
		"secondary": 4,
		"fogcoord":  5,
		"texcoord":  8,
	}
	fragmentInputs = map[string]int{
		"primary":   0,
		"color":     0,
		"secondary": 1,
		"texcoord":  2,
		"fogcoord":  18,
		"position":  19,
	}
	vertexOutputs = map[string]int{
		"position":  0,
		"primary":   1,
		"color":     1,
		"secondary": 2,
		"fogcoord":  5,
		"pointsize": 6,
		"texcoord":  8,
	}
)

// attribBinding resolves vertex.* and fragment.* inputs to register numbers.
func attribBinding(m Model, p path) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("incomplete input binding")
	}
	table := vertexInputs
	if m == ModelARBFragment {
		table = fragmentInputs
	}
	head := p[0]
	if head.name == "color" && !head.indexed() {
		switch single(p[1:]) {
		case "":
			if len(p) > 1 {
				return 0, fmt.Errorf("unknown color input %q", p[1:])
			}
			return table["color"], nil
		case "primary":
			return table["color"], nil
		case "secondary":
			return table["secondary"], nil
		}
		return 0, fmt.Errorf("unknown color input %q", p[1:])
	}
	if len(p) != 1 {
		return 0, fmt.Errorf("unknown input %q", p)
	}
	base, ok := table[head.name]
	if !ok || head.name == "secondary" || head.name == "primary" {
		return 0, fmt.Errorf("unknown input %q", head.name)
	}
	if head.name == "texcoord" {
		unit, err := unitIndex(head, MaxTextureUnits, true)
		if err != nil {
			return 0, err
		}
		return base + unit, nil
	}
	if head.indexed() {
		return 0, fmt.Errorf("%s takes no index", head.name)
	}
	return base, nil
}

// resultBinding resolves result.* outputs to register numbers.
func resultBinding(m Model, p path) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("incomplete result binding")
	}
	head := p[0]
	if m == ModelARBFragment {
		switch {
		case head.name == "color" && len(p) == 1 && !head.indexed():
			return 0, nil
		case head.name == "depth" && len(p) == 1 && !head.indexed():
			return 1, nil
		}
		return 0, fmt.Errorf("unknown result %q", p)
	}
	if head.name == "color" && !head.indexed() {
		rest := p[1:]
		back := false
		if len(rest) > 0 && !rest[0].indexed() && (rest[0].name == "front" || rest[0].name == "back") {
			back = rest[0].name == "back"
			rest = rest[1:]
		}
		var reg int
		switch single(rest) {
		case "":
			if len(rest) > 0 {
				return 0, fmt.Errorf("unknown color result %q", p)
			}
			reg = 1
		case "primary":
			reg = 1
		case "secondary":
			reg = 2
		default:
			return 0, fmt.Errorf("unknown color result %q", p)
		}
		if back {
			reg += 2
		}
		return reg, nil
	}
	if len(p) != 1 {
		return 0, fmt.Errorf("unknown result %q", p)
	}
	base, ok := vertexOutputs[head.name]
	if !ok || head.name == "primary" || head.name == "secondary" {
		return 0, fmt.Errorf("unknown result %q", head.name)
	}
	if head.name == "texcoord" {
		unit, err := unitIndex(head, MaxTextureUnits, true)
		if err != nil {
			return 0, err
		}
		return base + unit, nil
	}
	if head.indexed() {
		return 0, fmt.Errorf("%s takes no index", head.name)
	}
	return base, nil
}
