package content

import "errors"

var (
	// ErrRootNotFound indicates the configured content root does not exist.
	ErrRootNotFound = errors.New("content root not found")

	// ErrRootNotDirectory indicates the content root is a regular file.
	ErrRootNotDirectory = errors.New("content root is not a directory")

	// ErrWalkFailed indicates filesystem traversal of a content directory failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered markdown file failed.
	ErrFileReadFailed = errors.New("content file read failed")
)
