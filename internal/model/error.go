package model

// ErrorResponse is the body of every failed API call.
// Code is the error kind, e.g. NOT_FOUND or INVALID_PASSWORD.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
