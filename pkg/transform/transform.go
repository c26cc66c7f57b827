// Package transform encodes object placement into engine transform
// documents.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnsupportedRotationMode is returned for rotation modes the engine
// cannot represent.
var ErrUnsupportedRotationMode = errors.New("unsupported rotation mode")

// Rotation modes understood by the host.
const (
	ModeQuaternion = "QUATERNION"
	ModeAxisAngle  = "AXIS_ANGLE"
)

var eulerOrders = map[string]bool{
	"XYZ": true, "XZY": true, "YXZ": true,
	"YZX": true, "ZXY": true, "ZYX": true,
}

// Source is an object's placement as the host stores it.
type Source struct {
	Position [3]float32 `yaml:"position"`
	Scale    [3]float32 `yaml:"scale"`
	Mode     string     `yaml:"rotation_mode"`
	// Quaternion is ordered w, x, y, z.
	Quaternion [4]float32 `yaml:"rotation_quaternion"`
	Euler      [3]float32 `yaml:"rotation_euler"`
}

// Identity returns a source at the origin with unit scale and no rotation.
func Identity() Source {
	return Source{
		Scale:      [3]float32{1, 1, 1},
		Mode:       ModeQuaternion,
		Quaternion: [4]float32{1, 0, 0, 0},
	}
}

// FromQuat builds a quaternion source from a translation, rotation and scale.
func FromQuat(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) Source {
	return Source{
		Position:   pos,
		Scale:      scale,
		Mode:       ModeQuaternion,
		Quaternion: [4]float32{rot.W, rot.V[0], rot.V[1], rot.V[2]},
	}
}

// Transform is the document written as {model}.trans.json.
type Transform struct {
	Mode     string    `json:"mode"`
	Position []float32 `json:"position"`
	Rotation []float32 `json:"rotation"`
	Scale    []float32 `json:"scale"`
}

// Encode converts a host transform. Quaternions keep w, x, y, z order;
// Euler rotations keep their three angles and a lower-cased order name.
func Encode(src Source) (*Transform, error) {
	t := &Transform{
		Position: []float32{src.Position[0], src.Position[1], src.Position[2]},
		Scale:    []float32{src.Scale[0], src.Scale[1], src.Scale[2]},
	}

	switch mode := strings.ToUpper(src.Mode); {
	case mode == ModeQuaternion:
		t.Mode = "quaternion"
		q := src.Quaternion
		t.Rotation = []float32{q[0], q[1], q[2], q[3]}
	case eulerOrders[mode]:
		t.Mode = strings.ToLower(mode)
		e := src.Euler
		t.Rotation = []float32{e[0], e[1], e[2]}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRotationMode, src.Mode)
	}
	return t, nil
}

// quat returns the rotation as a unit quaternion. Euler angles are applied
// in the order the mode names them, each about the fixed world axis.
func (t *Transform) quat() (mgl32.Quat, error) {
	if t.Mode == "quaternion" {
		if len(t.Rotation) != 4 {
			return mgl32.Quat{}, fmt.Errorf("%w: quaternion needs 4 values, got %d", ErrUnsupportedRotationMode, len(t.Rotation))
		}
		q := mgl32.Quat{W: t.Rotation[0], V: mgl32.Vec3{t.Rotation[1], t.Rotation[2], t.Rotation[3]}}
		if q.Len() == 0 {
			return mgl32.QuatIdent(), nil
		}
		return q.Normalize(), nil
	}

	order := strings.ToUpper(t.Mode)
	if !eulerOrders[order] || len(t.Rotation) != 3 {
		return mgl32.Quat{}, fmt.Errorf("%w: %q", ErrUnsupportedRotationMode, t.Mode)
	}
	q := mgl32.QuatIdent()
	for _, axis := range order {
		var angle float32
		var dir mgl32.Vec3
		switch axis {
		case 'X':
			angle, dir = t.Rotation[0], mgl32.Vec3{1, 0, 0}
		case 'Y':
			angle, dir = t.Rotation[1], mgl32.Vec3{0, 1, 0}
		case 'Z':
			angle, dir = t.Rotation[2], mgl32.Vec3{0, 0, 1}
		}
		q = mgl32.QuatRotate(angle, dir).Mul(q)
	}
	return q.Normalize(), nil
}

// Matrix returns the model matrix translate * rotate * scale.
func (t *Transform) Matrix() (mgl32.Mat4, error) {
	if len(t.Position) != 3 || len(t.Scale) != 3 {
		return mgl32.Mat4{}, fmt.Errorf("transform: position and scale need 3 values")
	}
	q, err := t.quat()
	if err != nil {
		return mgl32.Mat4{}, err
	}
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(q.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])), nil
}
