package machine

import (
	"github.com/pkg/errors"
)

var (
	// ErrPoseGraphCycle is returned when an edge would make the pose graph cyclic.
	ErrPoseGraphCycle = errors.New("pose graph cycle")

	// ErrInvalidNode is returned when a handle does not address a live pose node.
	ErrInvalidNode = errors.New("invalid pose node")

	// ErrNodeKind is returned when an edge operation targets a node of the wrong kind.
	ErrNodeKind = errors.New("unexpected pose node kind")

	// ErrInputIndex is returned when an input index is out of range.
	ErrInputIndex = errors.New("input index out of range")
)
