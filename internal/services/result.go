package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/wandrix/internal/shared"
)

// Family selects how a response body's success marker is read.
type Family int

const (
	// FamilyData endpoints succeed unless the body carries "error".
	FamilyData Family = iota
	// FamilyAuth endpoints (login, register) succeed iff the body carries "token".
	FamilyAuth
	// FamilyMutation endpoints (wishlist add/remove) succeed iff the body carries "message".
	FamilyMutation
)

func (f Family) String() string {
	switch f {
	case FamilyAuth:
		return "auth"
	case FamilyMutation:
		return "mutation"
	default:
		return "data"
	}
}

// Result is a decoded travel API response tagged with its outcome.
//
// Data always holds the full JSON body so callers can decode payload fields with [Result.Decode].
type Result struct {
	Family  Family
	Status  int
	Data    json.RawMessage
	Token   string
	Message string
	Err     string
	ok      bool
}

// OK reports whether the server's success marker for the endpoint family was present.
func (r Result) OK() bool { return r.ok }

// Decode unmarshals the response body into v.
func (r Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("%w: empty body", shared.ErrDecodeResponse)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrDecodeResponse, err)
	}
	return nil
}

// ErrorMessage returns the server-supplied error, or a generic message for failures without one.
func (r Result) ErrorMessage() string {
	if r.ok {
		return ""
	}
	if r.Err != "" {
		return r.Err
	}
	return fmt.Sprintf("unexpected %s response (status %d)", r.Family, r.Status)
}

type envelope struct {
	Token   *string         `json:"token"`
	Message *string         `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// NewResult interprets resp according to family. A body that is not JSON is a decode error.
func NewResult(family Family, resp *APIResponse) (Result, error) {
	res := Result{Family: family, Status: resp.StatusCode}
	if !resp.IsJSON {
		return res, fmt.Errorf("%w: non-JSON body (status %d)", shared.ErrDecodeResponse, resp.StatusCode)
	}
	res.Data = json.RawMessage(resp.Body)

	var env envelope
	if trimmed := bytes.TrimSpace(resp.Body); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return res, fmt.Errorf("%w: %w", shared.ErrDecodeResponse, err)
		}
	}

	hasError := len(env.Error) > 0 && string(env.Error) != "null"
	if hasError {
		res.Err = errorText(env.Error)
	}
	if env.Message != nil {
		res.Message = *env.Message
	}
	if env.Token != nil {
		res.Token = *env.Token
	}

	switch family {
	case FamilyAuth:
		res.ok = env.Token != nil && res.Token != ""
	case FamilyMutation:
		res.ok = env.Message != nil
	default:
		res.ok = !hasError
	}
	return res, nil
}

// ResultFromJSON builds a [Result] from a status and body without a round trip.
func ResultFromJSON(family Family, status int, body string) (Result, error) {
	resp := &APIResponse{StatusCode: status, Body: []byte(body)}
	var probe any
	resp.IsJSON = json.Unmarshal(resp.Body, &probe) == nil
	return NewResult(family, resp)
}

// AuthResult interprets a login/register response.
func AuthResult(resp *APIResponse) (Result, error) { return NewResult(FamilyAuth, resp) }

// MutationResult interprets a wishlist add/remove response.
func MutationResult(resp *APIResponse) (Result, error) { return NewResult(FamilyMutation, resp) }

// DataResult interprets any other response.
func DataResult(resp *APIResponse) (Result, error) { return NewResult(FamilyData, resp) }

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
