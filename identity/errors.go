package identity

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// Error is an identity-service API failure, carrying the backend's own
// message untransformed. The session store and the UI layer receive it
// verbatim.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("identity service error (status %d)", e.Status)
}

// Is maps credential rejections onto goSession.ErrInvalidCredentials so
// callers can branch with errors.Is without losing the backend message.
func (e *Error) Is(target error) bool {
	switch target {
	case goSession.ErrInvalidCredentials:
		return e.Status == http.StatusBadRequest && e.Code == "invalid_grant" ||
			e.Status == http.StatusUnauthorized
	case goSession.ErrProviderUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// apiError decodes an error response body. The service answers with either
// OAuth-style {"error","error_description"} or {"code","msg"}.
func apiError(resp *http.Response) *Error {
	out := &Error{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return out
	}

	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             string `json:"code"`
		Msg              string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return out
	}

	switch {
	case payload.Error != "":
		out.Code = payload.Error
		out.Message = payload.ErrorDescription
	case payload.Msg != "":
		out.Code = payload.Code
		out.Message = payload.Msg
	}
	return out
}
