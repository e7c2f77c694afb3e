package definition

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownAnimation is returned when a document names an animation missing from the container.
	ErrUnknownAnimation = errors.New("unknown animation")

	// ErrUnknownNode is returned when a document references an undeclared pose node id.
	ErrUnknownNode = errors.New("unknown pose node")

	// ErrUnknownState is returned when a document references an undeclared state.
	ErrUnknownState = errors.New("unknown state")

	// ErrInvalidDocument is returned for structurally invalid documents.
	ErrInvalidDocument = errors.New("invalid document")
)
