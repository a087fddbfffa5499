package generator

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/settings"
	"github.com/gogpu/ffp/state"
)

// vertexFlags are the decisions derived once from the settings and shared
// by every vertex program section.
type vertexFlags struct {
	s *settings.PipelineSettings

	lighting       bool
	anyLight       bool
	anyLocalLight  bool
	infiniteViewer bool
	normalize      bool
	rescale        bool
	twoSided       bool
	separate       bool

	bothCulled   bool
	computeFront bool
	computeBack  bool

	nhEye       bool
	separateMVP bool
	normals     bool

	eyeTexGen       bool
	normalTexGen    bool
	reflectedTexGen bool

	emissionFront bool
	emissionBack  bool
}

func newVertexFlags(s *settings.PipelineSettings) *vertexFlags {
	f := &vertexFlags{
		s:              s,
		lighting:       s.Lighting,
		anyLight:       s.AnyLightEnabled(),
		infiniteViewer: !s.LocalViewer,
		normalize:      s.Normalize == settings.Normalize,
		rescale:        s.Normalize == settings.Rescale,
		twoSided:       s.TwoSidedLighting,
		separate:       s.SeparateSpecular,
	}
	// Disabled lights count as well, matching the temporaries the lighting
	// code may reference.
	for _, l := range s.Lights {
		if l.Type.Local() {
			f.anyLocalLight = true
		}
	}

	frontCulled := s.CullEnabled && s.CullFace.HasFront()
	backCulled := s.CullEnabled && s.CullFace.HasBack()
	f.bothCulled = frontCulled && backCulled
	f.computeFront = !frontCulled || (!backCulled && !f.twoSided)
	f.computeBack = !backCulled && f.twoSided

	for i := range s.Stages {
		if !s.Stages[i].Enabled {
			continue
		}
		for _, m := range s.TexCoords[i].Coords() {
			switch m {
			case settings.SphereMap, settings.ReflectionMap:
				f.normalTexGen = true
				f.eyeTexGen = true
				f.reflectedTexGen = true
			case settings.NormalMap:
				f.normalTexGen = true
			case settings.EyeLinear:
				f.eyeTexGen = true
			case settings.VertexAttrib, settings.ObjectLinear:
			}
		}
	}

	litEye := !f.bothCulled && f.lighting && f.anyLight && (!f.infiniteViewer || f.anyLocalLight)
	f.nhEye = litEye
	f.separateMVP = litEye || f.eyeTexGen || (s.FogEnabled && s.FogCoord == settings.FogFragmentDepth)
	f.normals = (!f.bothCulled && f.lighting && f.anyLight) || f.normalTexGen

	f.emissionFront = s.ColorMaterialFace.HasFront() && s.ColorMaterial == settings.CMEmission
	f.emissionBack = s.ColorMaterialFace.HasBack() && s.ColorMaterial == settings.CMEmission
	return f
}

// Vertex generates the vertex program for s.
func Vertex(s *settings.PipelineSettings) (Program, error) {
	if err := settings.Validate(s); err != nil {
		return Program{}, err
	}
	f := newVertexFlags(s)
	c := &code{}

	c.text("!!ARBvp1.0\n")
	f.inputs(c)
	f.matrices(c)
	f.lights(c)
	f.temporaries(c)
	f.outputs(c)
	f.transforms(c)
	f.fogCoordinate(c)
	f.texCoords(c)
	if f.lighting {
		f.lightingCode(c)
	} else {
		f.colorCopy(c)
	}
	c.text("END")

	return c.program(gputypes.ShaderStageVertex), nil
}

func (f *vertexFlags) inputs(c *code) {
	c.text("# ------------ Basic vertex input binding ------------\n" +
		"ATTRIB iPos = vertex.position;\n")
	if f.normals {
		c.text("ATTRIB iNormal = vertex.normal;\n")
		if f.rescale {
			c.linef("PARAM rescaleScale = program.local[%d];", LocalRescale)
			c.bind(binding.Descriptor{
				Target: binding.Local,
				Index:  LocalRescale,
				Slots:  []state.SlotID{state.Modelview(0)},
				Func:   binding.RescaleFactor,
			})
		}
	}

	if f.lighting {
		if f.computeFront {
			if f.emissionFront {
				c.text("TEMP sceneLightFront;\n")
			} else {
				c.text("# front scene color = a_cs * a_cm + e_cm\n" +
					"PARAM sceneLightFront = state.lightmodel.scenecolor;\n")
			}
		}
		if f.computeBack {
			if f.emissionBack {
				c.text("TEMP sceneLightBack;\n")
			} else {
				c.text("# back scene color = a_cs * a_cm + e_cm\n" +
					"PARAM sceneLightBack = state.lightmodel.back.scenecolor;\n")
			}
		}
		if f.anyLight {
			c.text("# Position of eye\n" +
				"PARAM eyePositionConst = { 0.0, 0.0, 0.0, 1.0 };\n")
			if f.computeFront {
				c.text("# Front Material specular exponent\n" +
					"PARAM specExpFront = state.material.front.shininess;\n")
			}
			if f.computeBack {
				c.text("# Back Material specular exponent\n" +
					"PARAM specExpBack = state.material.back.shininess;\n")
			}
		}
	} else {
		c.text("ATTRIB iColorPrim = vertex.color.primary;\n")
		if f.separate {
			c.text("ATTRIB iColorSec = vertex.color.secondary;\n")
		}
	}
	c.text("# ------------ End Basic vertex input binding ------------\n")
}

func (f *vertexFlags) matrices(c *code) {
	c.text("# ------------ Matrices Initialization -----------\n")
	if f.separateMVP {
		c.text("PARAM mvm[4] = { state.matrix.modelview };\n" +
			"PARAM proj[4] = { state.matrix.projection };\n")
	} else {
		c.text("PARAM mvp[4] = { state.matrix.mvp };\n")
	}
	if f.normals {
		c.text("PARAM mvinv[4] = { state.matrix.modelview.invtrans };\n")
	}
	c.text("# ------------ End Matrices Initialization -----------\n")
}

func (f *vertexFlags) lights(c *code) {
	if !f.lighting || !f.anyLight {
		return
	}
	c.text("# ------------- Lights Initialization -------------------\n")
	for i, l := range f.s.Lights {
		if !l.Enabled {
			continue
		}
		c.linef("# Declare parameters for light %d", i)
		c.linef("PARAM lightPos%d = state.light[%d].position;", i, i)
		if f.infiniteViewer {
			c.linef("PARAM halfDir%d = state.light[%d].half;", i, i)
		}
		switch l.Type {
		case settings.Directional:
			c.linef("PARAM lightPosNorm%d = program.local[%d];", i, LocalLightDirection+i)
			c.bind(binding.Descriptor{
				Target: binding.Local,
				Index:  LocalLightDirection + i,
				Slots:  []state.SlotID{state.Light(i, state.LightPosition)},
				Func:   binding.NormalizeDirection,
			})
		case settings.Point:
			c.linef("PARAM lightAttCoeff%d = state.light[%d].attenuation;", i, i)
		case settings.Spot:
			c.linef("PARAM lightAttCoeff%d = state.light[%d].attenuation;", i, i)
			c.linef("PARAM lightSpotDir%d = state.light[%d].spot.direction;", i, i)
		}
	}
	c.text("# ------------ End Lights Initialization ----------------\n")
}

func (f *vertexFlags) temporaries(c *code) {
	anyStage := f.s.AnyStageEnabled()
	if !f.lighting && !f.normals && !f.separateMVP && !anyStage {
		return
	}
	c.text("# ------------ Temporary List --------------\n")
	if f.lighting {
		if f.computeFront {
			c.text("TEMP primFront;\n")
			if f.separate {
				c.text("TEMP secFront;\n")
			}
		}
		if f.computeBack {
			c.text("TEMP primBack;\n")
			if f.separate {
				c.text("TEMP secBack;\n")
			}
		}
		if f.anyLight {
			c.text("TEMP temp1;\nTEMP halfVector;\n")
		}
	}
	if f.normals {
		c.text("TEMP normalEye;\n")
	}
	if f.separateMVP {
		c.text("TEMP eyePos;\n")
	}
	if f.lighting && (f.anyLocalLight || !f.infiniteViewer) {
		c.text("TEMP eyePosNH;\n")
	}
	if f.lighting && !f.infiniteViewer {
		c.text("TEMP vertexEyeVector;\n")
	}
	if f.lighting && f.anyLocalLight {
		c.text("TEMP distVector, reflEyeLightVector;\n")
	}
	for i := range f.s.Stages {
		if !f.s.Stages[i].Enabled {
			continue
		}
		if f.s.TexCoords[i].IdentityMatrix {
			c.linef("OUTPUT oCord%d = result.texcoord[%d];", i, i)
		} else {
			c.linef("TEMP oCord%d;", i)
		}
	}
	c.text("# ------------ End Temporary List ------------\n")

	if f.lighting {
		if f.computeFront {
			c.text("MOV primFront, {0,0,0,0};\n")
			if f.separate {
				c.text("MOV secFront, {0,0,0,0};\n")
			}
		}
		if f.computeBack {
			c.text("MOV primBack, {0,0,0,0};\n")
			if f.separate {
				c.text("MOV secBack, {0,0,0,0};\n")
			}
		}
	}
}

func (f *vertexFlags) outputs(c *code) {
	c.text("# ------------ Output init --------------\n" +
		"OUTPUT oPos = result.position;\n" +
		"OUTPUT oColorPrimFront = result.color.front.primary;\n")
	if f.separate {
		c.text("OUTPUT oColorSecFront = result.color.front.secondary;\n")
	}
	if f.twoSided {
		c.text("OUTPUT oColorPrimBack = result.color.back.primary;\n")
		if f.separate {
			c.text("OUTPUT oColorSecBack = result.color.back.secondary;\n")
		}
	}
	c.text("# ----------- End Output init -----------\n")
}

func (f *vertexFlags) transforms(c *code) {
	c.text("# ------------ Vertex position transformations -----------\n")
	if f.separateMVP {
		transform(c, "# Transform the vertex to eye-coordinates", "eyePos", "mvm", "iPos")
		transform(c, "# Transform the vertex to clip-coordinates", "oPos", "proj", "eyePos")
	} else {
		transform(c, "# Multiply the vertex to mvp", "oPos", "mvp", "iPos")
	}

	if f.normals {
		c.text("# ------------ Normal Calculations -----------\n" +
			"# Transform the normal to eye coordinates.\n" +
			"DP3 normalEye.x, mvinv[0], iNormal;\n" +
			"DP3 normalEye.y, mvinv[1], iNormal;\n" +
			"DP3 normalEye.z, mvinv[2], iNormal;\n")
		if f.normalize {
			c.text("# Normalize Eye Normal\n" +
				"DP3 normalEye.w, normalEye, normalEye;\n" +
				"RSQ normalEye.w, normalEye.w;\n" +
				"MUL normalEye, normalEye, normalEye.w;\n")
		}
		if f.rescale {
			c.text("# Rescaling of normal vector\n" +
				"MUL normalEye, normalEye, rescaleScale;\n")
		}
		c.text("# ------------ End Normal Calculations -----------\n")
	}

	if f.nhEye {
		c.text("# Non-homogeneous Eye position\n" +
			"RCP temp1.w, eyePos.w;\n" +
			"MUL eyePosNH, eyePos, temp1.w;\n")
	}
	c.text("# ------------ End Vertex position transformations -----------\n")
}

// transform emits dst = matrix * src as four row dot products.
func transform(c *code, comment, dst, matrix, src string) {
	c.text(comment + "\n")
	for r, comp := range "xyzw" {
		c.linef("DP4 %s.%c, %s[%d], %s;", dst, comp, matrix, r, src)
	}
}

func (f *vertexFlags) fogCoordinate(c *code) {
	if !f.s.FogEnabled {
		return
	}
	c.text("# ------------ Fog coordinate computing -----------\n")
	switch f.s.FogCoord {
	case settings.FogFragmentDepth:
		c.text("ABS result.fogcoord.x, eyePos.z;\n")
	case settings.FogCoordinate:
		c.text("MOV result.fogcoord.x, vertex.fogcoord.x;\n")
	}
	c.text("# ---------- End fog coordinate computing ---------\n")
}

func (f *vertexFlags) colorCopy(c *code) {
	c.text("# Final output color copy\n")
	if f.bothCulled {
		c.text("MOV result.color.front.primary, {0,0,0,0};\n")
		return
	}
	c.text("MOV oColorPrimFront, iColorPrim;\n")
	if f.twoSided {
		c.text("MOV oColorPrimBack, iColorPrim;\n")
	}
	if f.separate {
		c.text("MOV oColorSecFront, iColorSec;\n")
		if f.twoSided {
			c.text("MOV oColorSecBack, iColorSec;\n")
		}
	}
}
