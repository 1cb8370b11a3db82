package transform

import "github.com/pkg/errors"

var (
	ErrNotRegistered   = errors.New("transform is not in a registry")
	ErrForeignRegistry = errors.New("transforms belong to different registries")
	ErrCycle           = errors.New("parenting would create a cycle")
	ErrNotDecomposable = errors.New("matrix is not representable as translation, rotation and scale")
)
