package utils

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TRS is a matrix split into translation, rotation and scale.
type TRS struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// DecomposeMat4 splits an affine transform (column vectors) into TRS.
// Shear is dropped and a negative determinant is folded into the x scale.
func DecomposeMat4(m mgl32.Mat4) TRS {
	var trs TRS
	trs.Translation = m.Col(3).Vec3()

	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()
	trs.Scale = mgl32.Vec3{x.Len(), y.Len(), z.Len()}
	if m.Mat3().Det() < 0 {
		trs.Scale[0] = -trs.Scale[0]
	}

	rot := mgl32.Ident4()
	for i, axis := range [3]mgl32.Vec3{x, y, z} {
		if trs.Scale[i] != 0 {
			axis = axis.Mul(1 / trs.Scale[i])
		}
		rot.SetCol(i, axis.Vec4(0))
	}
	trs.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	return trs
}

func (trs TRS) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(trs.Translation[0], trs.Translation[1], trs.Translation[2]).
		Mul4(trs.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(trs.Scale[0], trs.Scale[1], trs.Scale[2]))
}

// LerpTRS blends two decomposed transforms. Rotation uses shortest-path slerp.
func LerpTRS(a, b TRS, amount float32) TRS {
	return TRS{
		Translation: LerpVec3(a.Translation, b.Translation, amount),
		Rotation:    SlerpShortest(a.Rotation, b.Rotation, amount),
		Scale:       LerpVec3(a.Scale, b.Scale, amount),
	}
}

func LerpVec3(a, b mgl32.Vec3, amount float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(amount))
}

// SlerpShortest flips b into a's hemisphere before slerping, so the blend
// never takes the long way around.
func SlerpShortest(a, b mgl32.Quat, amount float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, amount).Normalize()
}
