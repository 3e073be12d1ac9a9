package math

// MatView refers to a Mat stored inside another struct. Writes go through to
// the parent's storage; the view owns nothing and must not outlive the parent.
type MatView struct {
	m *Mat
}

func ViewMat(m *Mat) MatView {
	return MatView{m: m}
}

func (v MatView) Get() Mat {
	return *v.m
}

// Set copies all 16 elements into the parent storage.
func (v MatView) Set(m Mat) {
	*v.m = m
}

// VecView refers to a Vec stored inside another struct.
type VecView struct {
	v *Vec
}

func ViewVec(v *Vec) VecView {
	return VecView{v: v}
}

func (v VecView) Get() Vec {
	return *v.v
}

// Set copies all 4 components into the parent storage.
func (v VecView) Set(val Vec) {
	*v.v = val
}
