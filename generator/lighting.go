package generator

import "github.com/gogpu/ffp/settings"

// face selects the material side a lighting fragment accumulates into.
type face struct {
	name    string // "Front" or "Back"
	normal  string // eye normal as seen from this side
	prod    string // state.lightprod face selector
	specExp string
}

var (
	frontFace = face{name: "Front", normal: "normalEye", prod: "front", specExp: "specExpFront"}
	backFace  = face{name: "Back", normal: "-normalEye", prod: "back", specExp: "specExpBack"}
)

func (f *vertexFlags) lightingCode(c *code) {
	if f.bothCulled {
		c.text("MOV result.color.front.primary, {0,0,0,0};\n")
		return
	}
	c.text("# ------------ Lighting calculations -----------\n")
	if f.anyLight && !f.infiniteViewer {
		c.text("# ----------------- Vertex to Eye vector computing -----------------\n" +
			"# Compute the vector pointing from the vertex position to the eye position\n" +
			"# d = |eyePositionConst - eyePosNH|\n" +
			"SUB temp1, eyePositionConst, eyePosNH;\n" +
			"# temp1.w = d^2\n" +
			"DP3 temp1.w, temp1, temp1;\n" +
			"# temp1.w = 1/d\n" +
			"RSQ temp1.w, temp1.w;\n" +
			"# Normalized direction (VP_e unit vector)\n" +
			"MUL vertexEyeVector, temp1, temp1.w;\n" +
			"# ---------------- End Vertex to Eye vector computing ---------------\n")
	}

	for i, l := range f.s.Lights {
		if !l.Enabled {
			continue
		}
		local := l.Type.Local()
		if local {
			attenuation(c, i)
		}
		if l.Type == settings.Spot {
			spotCone(c, i)
		}
		if f.computeFront {
			f.halfVector(c, i, local)
			f.diffuseSpecular(c, i, local, frontFace)
			f.accumulate(c, i, frontFace)
		}
		if f.twoSided && f.computeBack {
			f.halfVector(c, i, local)
			f.diffuseSpecular(c, i, local, backFace)
			f.accumulate(c, i, backFace)
		}
	}

	f.sceneColor(c)
	c.text("# ------------ End Lighting calculations -----------\n")
}

func attenuation(c *code, i int) {
	c.linef("# ----------------- Vertex to Light%d vector computing -----------------", i)
	c.text("# Compute the vector pointing from the vertex position to the light position\n" +
		"# temp1 = lightposition - eyeposition (VP_pli)\n")
	c.linef("SUB temp1, lightPos%d, eyePosNH;", i)
	c.text("# Compute light direction and distance vector\n" +
		"# d = |lightposition - eyeposition|\n" +
		"DP3 temp1.w, temp1, temp1; # temp1.w = d^2\n" +
		"RSQ distVector.w, temp1.w; # distVector.w = 1/d\n" +
		"# Normalized direction (VP_pli unit vector)\n" +
		"MUL reflEyeLightVector, temp1, distVector.w;\n" +
		"DST distVector, temp1.w, distVector.w; # distVector = (1, d, d^2, 1/d)\n" +
		"# Compute Distance Attenuation\n")
	c.linef("DP3 distVector.w, distVector, lightAttCoeff%d;", i)
	c.text("RCP distVector.w, distVector.w;\n")
	c.linef("# ---------------- End Vertex to Light%d vector computing ---------------", i)
}

// spotCone multiplies the distance attenuation by the spot cone factor.
// The spot direction w holds the cosine of the cutoff angle and the
// attenuation w the spot exponent.
func spotCone(c *code, i int) {
	c.text("# ----------------- Spotlight cone attenuation computing -----------------\n" +
		"# Compute spotlight cone attenuation\n")
	c.linef("DP3 temp1.y, reflEyeLightVector, -lightSpotDir%d;", i)
	c.linef("ADD temp1.x, temp1.y, -lightSpotDir%d.w;", i)
	c.linef("MOV temp1.w, lightAttCoeff%d.w;", i)
	c.text("# Now temp1 = (P_pliV * S_dli - cos(c_rli), P_pliV * s_dli, -, s_lri)\n" +
		"# temp1.z = 0.0, if p_pliV * S_dli - cos(c_rli) < 0\n" +
		"LIT temp1, temp1;\n" +
		"# Light attenuation and spotlight attenuation is now multiplied together\n" +
		"MUL distVector.w, distVector.w, temp1.z;\n" +
		"# -------------- End Spotlight cone attenuation computing ----------------\n")
}

func (f *vertexFlags) halfVector(c *code, i int, local bool) {
	c.text("# Compute the normalized half-angle vector\n")
	switch {
	case local && !f.infiniteViewer:
		c.text("ADD halfVector, reflEyeLightVector, vertexEyeVector;\n")
	case local:
		c.text("ADD halfVector, reflEyeLightVector, {0,0,1,0};\n")
	case !f.infiniteViewer:
		c.linef("ADD halfVector, lightPosNorm%d, vertexEyeVector;", i)
	default:
		c.linef("MOV halfVector, halfDir%d;", i)
		return
	}
	c.text("DP3 halfVector.w, halfVector, halfVector; # halfVector.w = halfVector^2\n" +
		"RSQ halfVector.w, halfVector.w; # halfVector.w = 1/|halfVector|\n" +
		"MUL halfVector, halfVector, halfVector.w; # normalized halfangle\n")
}

func (f *vertexFlags) diffuseSpecular(c *code, i int, local bool, fc face) {
	c.linef("# Compute the light coefficients for diffuse and\n# specular light for %s material", fc.name)
	if local {
		c.linef("DP3 temp1.x, %s, reflEyeLightVector;", fc.normal)
	} else {
		c.linef("DP3 temp1.x, %s, lightPosNorm%d;", fc.normal, i)
	}
	c.linef("DP3 temp1.y, %s, halfVector;", fc.normal)
	c.linef("MOV temp1.w, %s.x; # now: temp1 = (n * VP_pli , n * h_i , - , s_rm)", fc.specExp)
	c.text("LIT temp1, temp1;\n")
	if local {
		c.text("# Light attenuation and spotlight is now multiplied with\n" +
			"# the ambient, diffuse and specular coefficients\n" +
			"MUL temp1, temp1, distVector.w;\n")
	}
}

func (f *vertexFlags) accumulate(c *code, i int, fc face) {
	c.linef("# Adding up all the color components for %s Material", fc.name)
	c.linef("MAD prim%s.xyz, temp1.x, state.lightprod[%d].%s.ambient, prim%s;", fc.name, i, fc.prod, fc.name)
	c.linef("MAD prim%s.xyz, temp1.y, state.lightprod[%d].%s.diffuse, prim%s;", fc.name, i, fc.prod, fc.name)
	if f.separate {
		c.linef("MAD sec%s.xyz, temp1.z, state.lightprod[%d].%s.specular, sec%s;", fc.name, i, fc.prod, fc.name)
	} else {
		c.linef("MAD prim%s.xyz, temp1.z, state.lightprod[%d].%s.specular, prim%s;", fc.name, i, fc.prod, fc.name)
	}
}

func (f *vertexFlags) sceneColor(c *code) {
	if f.computeFront {
		c.text("# The final addition of scene color and copy to the\n" +
			"# output for Front Material\n")
		if f.emissionFront {
			c.text("# Color Material Front for EMISSION enabled. Using vertex color as e_cm.\n" +
				"MAD sceneLightFront, state.lightmodel.ambient, state.material.ambient, vertex.color;\n")
		}
		c.text("ADD oColorPrimFront, primFront, sceneLightFront;\n")
		if f.separate {
			c.text("MOV oColorSecFront, secFront;\n")
		}
	}
	if f.computeBack {
		c.text("# The final addition of scene color and copy to the\n" +
			"# output for Back Material\n")
		if f.emissionBack {
			c.text("# Color Material Back for EMISSION enabled. Using vertex color as e_cm.\n" +
				"MAD sceneLightBack, state.lightmodel.ambient, state.material.back.ambient, vertex.color;\n")
		}
		c.text("ADD oColorPrimBack, primBack, sceneLightBack;\n")
		if f.separate {
			c.text("MOV oColorSecBack, secBack;\n")
		}
	}
}
