package models

import "errors"

// Sentinel errors for entity lookups. "Not found" outcomes are
// distinguishable results, not generic store failures.
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrGraphNotFound  = errors.New("graph not found")
	ErrRecordNotFound = errors.New("record not found")
)

// Sentinel errors for validation.
var (
	ErrEmptyAttributePath = errors.New("attribute path must not be empty")
	ErrMissingURI         = errors.New("uri is required")
	ErrMissingDataModelID = errors.New("data model id is required")
)
