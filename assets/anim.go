package assets

import (
	gomath "math"
	"sort"

	"renderlib/math"
)

// DefaultTicksPerSecond is the playback speed of clips that declare none.
const DefaultTicksPerSecond = 25

// Player plays an Animation over a Skeleton and produces skinning matrices.
type Player struct {
	anim *Animation
	skel *Skeleton
	time float32

	joints   []math.Mat
	skin     []math.Mat
	computed []bool
}

// NewPlayer returns a player at time zero with every joint at identity.
func NewPlayer(anim *Animation, skel *Skeleton) (*Player, error) {
	if skel == nil || len(skel.Joints) == 0 {
		return nil, ErrNoSkeleton
	}
	if len(anim.Poses) == 0 || len(anim.Timestamps) != len(anim.Poses) {
		return nil, ErrEmptyAnimation
	}
	for _, p := range anim.Poses {
		if len(p.Joints) != len(skel.Joints) {
			return nil, ErrInvalidMesh
		}
	}
	n := len(skel.Joints)
	p := &Player{
		anim:     anim,
		skel:     skel,
		joints:   make([]math.Mat, n),
		skin:     make([]math.Mat, n),
		computed: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		p.joints[i] = math.Identity()
		p.skin[i] = math.Identity()
	}
	return p, nil
}

// Time returns the position in the current cycle, in seconds.
func (p *Player) Time() float32 { return p.time }

// Play advances by dt seconds and recomputes the pose. The cursor wraps at
// the end of the clip so it stays within one cycle.
func (p *Player) Play(dt float32) {
	speed := p.anim.Speed
	if speed == 0 {
		speed = DefaultTicksPerSecond
	}
	p.time += dt
	local := p.time * speed
	if p.anim.Duration > 0 {
		cycle := float64(p.anim.Duration) / float64(speed)
		p.time = float32(gomath.Mod(float64(p.time), cycle))
		local = float32(gomath.Mod(float64(p.time)*float64(speed), float64(p.anim.Duration)))
	}

	k0, k1 := findPoses(p.anim.Timestamps, local)
	f := float32(0)
	if t0, t1 := p.anim.Timestamps[k0], p.anim.Timestamps[k1]; t1 > t0 {
		f = (local - t0) / (t1 - t0)
		f = float32(gomath.Max(0, gomath.Min(1, float64(f))))
	}
	sp0, sp1 := &p.anim.Poses[k0], &p.anim.Poses[k1]

	for i := range p.computed {
		p.computed[i] = false
	}
	for j := range p.joints {
		p.pose(sp0, sp1, j, f)
	}
	for j := range p.skin {
		p.skin[j] = p.joints[j].Mul(p.skel.Joints[j].InvBindPose)
	}
}

// pose computes the model-space transform of joint j, reusing the ones of
// already visited parents.
func (p *Player) pose(sp0, sp1 *SkeletonPose, j int, f float32) math.Mat {
	if p.computed[j] {
		return p.joints[j]
	}
	// mark first so a malformed cycle terminates
	p.computed[j] = true
	a, b := sp0.Joints[j], sp1.Joints[j]
	local := JointPose{
		Translation: a.Translation.Lerp(b.Translation, f),
		Rotation:    a.Rotation.Slerp(b.Rotation, f),
		Scale:       a.Scale.Lerp(b.Scale, f),
	}.Mat()
	if parent := p.skel.Joints[j].Parent; parent >= 0 && parent < len(p.joints) {
		local = p.pose(sp0, sp1, parent, f).Mul(local)
	}
	p.joints[j] = local
	return local
}

// findPoses returns the indices of the key poses bracketing t.
func findPoses(times []float32, t float32) (int, int) {
	n := len(times)
	if n == 1 {
		return 0, 0
	}
	i := sort.Search(n, func(i int) bool { return times[i] > t }) - 1
	if i < 0 {
		i = 0
	}
	if i >= n-1 {
		return n - 1, n - 1
	}
	return i, i + 1
}

// JointTransforms returns each joint's model-space transform. The slice is
// reused by the next Play.
func (p *Player) JointTransforms() []math.Mat { return p.joints }

// SkinTransforms returns joint transform * inverse bind pose per joint. The
// slice is reused by the next Play.
func (p *Player) SkinTransforms() []math.Mat { return p.skin }
