// Package material converts host material parameters into engine material
// documents.
package material

import (
	"errors"
	"fmt"
)

// Material errors.
var (
	ErrUnsupportedShaderType = errors.New("unsupported shader type")
	ErrUnsupportedBlendMode  = errors.New("unsupported ramp blend mode")
	ErrInvalidColorMode      = errors.New("invalid ramp colour mode")
	ErrInvalidStage          = errors.New("invalid material stage")
	ErrUnknownMode           = errors.New("unknown material export mode")
)

// Stage identifies a shading pass.
type Stage string

const (
	StageDiffuse  Stage = "diffuse"
	StageSpecular Stage = "specular"
	StageAmbient  Stage = "ambient"
	StageShadow   Stage = "shadow"
)

// Colour types of a pass.
const (
	ColorTypeStatic = "static"
	ColorTypeRamp   = "ramp"
)

// Source holds the material parameters read from the host application.
type Source struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	DiffuseShader        string     `yaml:"diffuse_shader"`
	DiffuseColor         [3]float32 `yaml:"diffuse_color"`
	DiffuseIntensity     float32    `yaml:"diffuse_intensity"`
	Roughness            float32    `yaml:"roughness"`
	DiffuseToonSize      float32    `yaml:"diffuse_toon_size"`
	DiffuseToonSmooth    float32    `yaml:"diffuse_toon_smooth"`
	Darkness             float32    `yaml:"darkness"`
	DiffuseFresnel       float32    `yaml:"diffuse_fresnel"`
	DiffuseFresnelFactor float32    `yaml:"diffuse_fresnel_factor"`
	UseDiffuseRamp       bool       `yaml:"use_diffuse_ramp"`
	DiffuseRamp          *Ramp      `yaml:"diffuse_ramp"`
	DiffuseRampBlend     string     `yaml:"diffuse_ramp_blend"`
	DiffuseRampFactor    float32    `yaml:"diffuse_ramp_factor"`

	SpecularShader     string     `yaml:"specular_shader"`
	SpecularColor      [3]float32 `yaml:"specular_color"`
	SpecularIntensity  float32    `yaml:"specular_intensity"`
	SpecularHardness   float32    `yaml:"specular_hardness"`
	SpecularIOR        float32    `yaml:"specular_ior"`
	SpecularToonSize   float32    `yaml:"specular_toon_size"`
	SpecularToonSmooth float32    `yaml:"specular_toon_smooth"`
	SpecularSlope      float32    `yaml:"specular_slope"`
	UseSpecularRamp    bool       `yaml:"use_specular_ramp"`
	SpecularRamp       *Ramp      `yaml:"specular_ramp"`
	SpecularRampBlend  string     `yaml:"specular_ramp_blend"`
	SpecularRampFactor float32    `yaml:"specular_ramp_factor"`

	CastShadows        bool    `yaml:"cast_shadows"`
	CastShadowsOnly    bool    `yaml:"cast_shadows_only"`
	CastBufferShadows  bool    `yaml:"cast_buffer_shadows"`
	ReceiveShadows     bool    `yaml:"receive_shadows"`
	TransparentShadows bool    `yaml:"transparent_shadows"`
	OnlyShadow         bool    `yaml:"only_shadow"`
	ShadowBufferBias   float32 `yaml:"shadow_buffer_bias"`
}

// DefaultSource returns a grey Lambert/Cook-Torrance material, the
// host's defaults for a new material.
func DefaultSource(name string) Source {
	return Source{
		Name:              name,
		Type:              "SURFACE",
		DiffuseShader:     "LAMBERT",
		DiffuseColor:      [3]float32{0.8, 0.8, 0.8},
		DiffuseIntensity:  0.8,
		DiffuseRampBlend:  "MIX",
		DiffuseRampFactor: 1,
		SpecularShader:    "COOKTORR",
		SpecularColor:     [3]float32{1, 1, 1},
		SpecularIntensity: 0.5,
		SpecularHardness:  50,
		SpecularIOR:       4,
		SpecularRampBlend: "MIX",
		CastShadows:       true,
		ReceiveShadows:    true,
		ShadowBufferBias:  1,
	}
}

// Material is the engine material document written as {name}.mat.json.
// Fields are declared in key order so the JSON output is canonical.
type Material struct {
	Diffuse  *Pass  `json:"diffuse"`
	Name     string `json:"name"`
	Shadow   Shadow `json:"shadow"`
	Specular *Pass  `json:"specular"`
	Type     string `json:"type"`

	// UseEngineMaterial marks a link-only material: nothing is written and
	// the engine resolves Name against its built-in materials.
	UseEngineMaterial bool `json:"-"`
}

// Pass describes one shading pass.
type Pass struct {
	ColorProps   ColorProps         `json:"color_props"`
	ColorType    string             `json:"color_type"`
	ShaderConfig map[string]float32 `json:"shader_config"`
	Type         string             `json:"type"`
}

// ColorProps holds either a static colour or a sampled ramp.
type ColorProps struct {
	BlendFactor *float32     `json:"blend_factor,omitempty"`
	Color       []float32    `json:"color,omitempty"`
	Colors      [][4]float32 `json:"colors,omitempty"`
	RampBlendOp string       `json:"ramp_blend_op,omitempty"`
}

// Shadow holds shadow casting and receiving flags.
type Shadow struct {
	BufferBias     float32 `json:"buffer_bias"`
	CastShadows    bool    `json:"cast_shadows"`
	ReceiveShadows bool    `json:"receive_shadows"`
}

// Encode converts host parameters into an engine material for the given
// export mode. Link-only materials carry just their name. It returns nil
// when mode is MaterialNone.
func Encode(src Source, mode Mode) (*Material, error) {
	switch mode {
	case MaterialNone:
		return nil, nil
	case MaterialLinkOnly:
		return &Material{Name: src.Name, Type: src.Type, UseEngineMaterial: true}, nil
	case MaterialAll, MaterialSaveOnly:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}

	diffuse, err := diffusePass(src)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", src.Name, err)
	}
	specular, err := specularPass(src)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", src.Name, err)
	}

	return &Material{
		Name:     src.Name,
		Type:     src.Type,
		Diffuse:  diffuse,
		Specular: specular,
		Shadow: Shadow{
			CastShadows:    src.CastShadows || src.CastShadowsOnly || src.CastBufferShadows,
			ReceiveShadows: src.ReceiveShadows || src.TransparentShadows || src.OnlyShadow,
			BufferBias:     src.ShadowBufferBias,
		},
	}, nil
}

func diffusePass(src Source) (*Pass, error) {
	shader, err := ParseDiffuseShader(src.DiffuseShader)
	if err != nil {
		return nil, err
	}
	pass := &Pass{Type: shader.Tag()}
	if pass.ColorType, err = ColorType(src, StageDiffuse); err != nil {
		return nil, err
	}
	if pass.ColorProps, err = colorProps(src, StageDiffuse); err != nil {
		return nil, err
	}

	cfg := map[string]float32{"intensity": src.DiffuseIntensity}
	switch shader {
	case DiffuseOrenNayar:
		cfg["roughness"] = src.Roughness
	case DiffuseToon:
		cfg["size"] = src.DiffuseToonSize
		cfg["smooth"] = src.DiffuseToonSmooth
	case DiffuseMinnaert:
		cfg["darkness"] = src.Darkness
	case DiffuseFresnel:
		cfg["fresnel"] = src.DiffuseFresnel
		cfg["fresnel_factor"] = src.DiffuseFresnelFactor
	}
	pass.ShaderConfig = cfg
	return pass, nil
}

func specularPass(src Source) (*Pass, error) {
	shader, err := ParseSpecularShader(src.SpecularShader)
	if err != nil {
		return nil, err
	}
	pass := &Pass{Type: shader.Tag()}
	if pass.ColorType, err = ColorType(src, StageSpecular); err != nil {
		return nil, err
	}
	if pass.ColorProps, err = colorProps(src, StageSpecular); err != nil {
		return nil, err
	}

	cfg := map[string]float32{"intensity": src.SpecularIntensity}
	switch shader {
	case SpecularCookTorrance, SpecularPhong:
		cfg["hardness"] = src.SpecularHardness
	case SpecularBlinn:
		cfg["hardness"] = src.SpecularHardness
		cfg["ior"] = src.SpecularIOR
	case SpecularToon:
		cfg["size"] = src.SpecularToonSize
		cfg["smooth"] = src.SpecularToonSmooth
	case SpecularWardIso:
		cfg["slope"] = src.SpecularSlope
	}
	pass.ShaderConfig = cfg
	return pass, nil
}

// ColorType reports whether the stage uses a ramp or a static colour. Only
// the diffuse and specular stages carry colours; any other stage is a
// programming error and yields ErrInvalidStage.
func ColorType(src Source, stage Stage) (string, error) {
	switch stage {
	case StageDiffuse:
		if src.UseDiffuseRamp {
			return ColorTypeRamp, nil
		}
		return ColorTypeStatic, nil
	case StageSpecular:
		if src.UseSpecularRamp {
			return ColorTypeRamp, nil
		}
		return ColorTypeStatic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStage, stage)
}

func colorProps(src Source, stage Stage) (ColorProps, error) {
	colorType, err := ColorType(src, stage)
	if err != nil {
		return ColorProps{}, err
	}

	color, ramp, blend, factor := src.DiffuseColor, src.DiffuseRamp, src.DiffuseRampBlend, src.DiffuseRampFactor
	if stage == StageSpecular {
		color, ramp, blend, factor = src.SpecularColor, src.SpecularRamp, src.SpecularRampBlend, src.SpecularRampFactor
	}

	if colorType == ColorTypeStatic {
		return ColorProps{Color: []float32{color[0], color[1], color[2]}}, nil
	}

	op, err := ParseBlendOp(blend)
	if err != nil {
		return ColorProps{}, err
	}
	if ramp == nil {
		ramp = &Ramp{ColorMode: ColorModeRGB}
	}
	colors, err := ramp.Sample(RampResolution)
	if err != nil {
		return ColorProps{}, err
	}
	return ColorProps{
		RampBlendOp: op.Tag(),
		BlendFactor: &factor,
		Colors:      colors,
	}, nil
}
