package material

import "fmt"

// DiffuseShader is a supported diffuse shading model.
type DiffuseShader int

const (
	DiffuseLambert DiffuseShader = iota
	DiffuseOrenNayar
	DiffuseToon
	DiffuseMinnaert
	DiffuseFresnel
)

// SpecularShader is a supported specular shading model.
type SpecularShader int

const (
	SpecularCookTorrance SpecularShader = iota
	SpecularPhong
	SpecularBlinn
	SpecularToon
	SpecularWardIso
)

// BlendOp is a colour ramp blend operation.
type BlendOp int

const (
	BlendMix BlendOp = iota
	BlendAdd
	BlendMultiply
	BlendSubtract
	BlendScreen
	BlendDivide
	BlendDifference
	BlendDarken
	BlendLighten
	BlendOverlay
	BlendDodge
	BlendBurn
	BlendHue
	BlendSaturation
	BlendValue
	BlendColor
	BlendSoftLight
	BlendLinearLight
)

// tagPair maps a host identifier to the engine tag.
type tagPair struct {
	host, engine string
}

var diffuseShaders = [...]tagPair{
	DiffuseLambert:   {"LAMBERT", "lambert"},
	DiffuseOrenNayar: {"OREN_NAYAR", "oren_nayar"},
	DiffuseToon:      {"TOON", "toon"},
	DiffuseMinnaert:  {"MINNAERT", "minnaert"},
	DiffuseFresnel:   {"FRESNEL", "fresnel"},
}

var specularShaders = [...]tagPair{
	SpecularCookTorrance: {"COOKTORR", "cook_torr"},
	SpecularPhong:        {"PHONG", "phong"},
	SpecularBlinn:        {"BLINN", "blinn"},
	SpecularToon:         {"TOON", "toon"},
	SpecularWardIso:      {"WARDISO", "ward_anisotropic"},
}

var blendOps = [...]tagPair{
	BlendMix:         {"MIX", "mix"},
	BlendAdd:         {"ADD", "add"},
	BlendMultiply:    {"MULTIPLY", "mult"},
	BlendSubtract:    {"SUBTRACT", "sub"},
	BlendScreen:      {"SCREEN", "screen"},
	BlendDivide:      {"DIVIDE", "div"},
	BlendDifference:  {"DIFFERENCE", "diff"},
	BlendDarken:      {"DARKEN", "min"},
	BlendLighten:     {"LIGHTEN", "max"},
	BlendOverlay:     {"OVERLAY", "overlay"},
	BlendDodge:       {"DODGE", "color_dodge"},
	BlendBurn:        {"BURN", "burn"},
	BlendHue:         {"HUE", "hue"},
	BlendSaturation:  {"SATURATION", "sat"},
	BlendValue:       {"VALUE", "lum"},
	BlendColor:       {"COLOR", "color"},
	BlendSoftLight:   {"SOFT_LIGHT", "soft"},
	BlendLinearLight: {"LINEAR_LIGHT", "linear_light"},
}

func lookup(table []tagPair, host string) (int, bool) {
	for i, p := range table {
		if p.host == host {
			return i, true
		}
	}
	return 0, false
}

// ParseDiffuseShader resolves a host diffuse shader name.
func ParseDiffuseShader(host string) (DiffuseShader, error) {
	i, ok := lookup(diffuseShaders[:], host)
	if !ok {
		return 0, fmt.Errorf("%w: diffuse %q", ErrUnsupportedShaderType, host)
	}
	return DiffuseShader(i), nil
}

// Tag returns the engine tag.
func (s DiffuseShader) Tag() string { return diffuseShaders[s].engine }

// ParseSpecularShader resolves a host specular shader name.
func ParseSpecularShader(host string) (SpecularShader, error) {
	i, ok := lookup(specularShaders[:], host)
	if !ok {
		return 0, fmt.Errorf("%w: specular %q", ErrUnsupportedShaderType, host)
	}
	return SpecularShader(i), nil
}

// Tag returns the engine tag.
func (s SpecularShader) Tag() string { return specularShaders[s].engine }

// ParseBlendOp resolves a host ramp blend mode.
func ParseBlendOp(host string) (BlendOp, error) {
	i, ok := lookup(blendOps[:], host)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedBlendMode, host)
	}
	return BlendOp(i), nil
}

// Tag returns the engine tag.
func (b BlendOp) Tag() string { return blendOps[b].engine }
