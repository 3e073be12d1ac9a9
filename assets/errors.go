package assets

import "errors"

var (
	ErrNoGeometry     = errors.New("assets: no geometry")
	ErrInvalidMesh    = errors.New("assets: invalid mesh data")
	ErrTooManyJoints  = errors.New("assets: too many joints")
	ErrNoSkeleton     = errors.New("assets: animation needs a skeleton")
	ErrUnknownCodec   = errors.New("assets: unknown image codec")
	ErrInvalidPtSize  = errors.New("assets: font point size must be positive")
	ErrEmptyAnimation = errors.New("assets: animation has no key poses")
)
