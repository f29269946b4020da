package model

import "errors"

var (
	ErrRemoteAccess      = errors.New("remote access")
	ErrArchiveExtraction = errors.New("archive extraction")
	ErrFileNotFound      = errors.New("file not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrNoMatchingColumn  = errors.New("no matching column")
	ErrNoData            = errors.New("no data")
)
