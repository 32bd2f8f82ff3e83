package mdcanon

import (
	"errors"

	"github.com/alnah/go-mdcanon/internal/present"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrRender        = present.ErrRender

	// Pipeline option errors.
	ErrUnknownDialect       = errors.New("unknown dialect")
	ErrInvalidNamespace     = errors.New("invalid namespace")
	ErrInvalidVersionPrefix = errors.New("invalid version prefix")
)
