package stopsale

import "errors"

var (
	ErrRuleNotFound      = errors.New("stop-sale rule not found")
	ErrRuleAlreadyExists = errors.New("stop-sale rule already exists")
	ErrBuildQuery        = errors.New("failed to build query")
	ErrExecQuery         = errors.New("failed to execute query")
	ErrScanRow           = errors.New("failed to scan row")
)
