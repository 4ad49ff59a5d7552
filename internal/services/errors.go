package services

import "errors"

var (
	// ErrDuplicateName rejects creating a named entity that already
	// exists in its collection.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNotFound reports a delete or lookup against a record that is
	// not in its collection.
	ErrNotFound = errors.New("not found")

	// ErrReservedFolder rejects deleting the default receipt folder.
	ErrReservedFolder = errors.New("the default folder cannot be deleted")

	// ErrFileTooLarge rejects a receipt upload before any write happens.
	ErrFileTooLarge = errors.New("file exceeds the upload size ceiling")
)
