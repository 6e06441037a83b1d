// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/validate"
)

// maxBodyBytes caps submission payloads; annotations are the largest field.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (needed to enforce the body size limit)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated editor claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetEditor(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the editor claims.

Returns:
  - *sec.AuthClaims: The authenticated editor claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get editor claims
	claims := ctxutil.GetEditor(request.Context())

	// If the editor is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredEditorID returns the numeric editor id of the currently logged-in editor.

Returns:
  - int: Editor row id
  - error: apperr.Unauthorized if not authenticated or the subject is not numeric
*/
func RequiredEditorID(request *http.Request) (int, error) {

	// Get editor claims
	claims, err := RequiredClaims(request)
	if err != nil {
		return 0, err
	}

	editorID, err := strconv.Atoi(claims.UserID)
	if err != nil || editorID <= 0 {
		return 0, apperr.Unauthorized("Token subject is not an editor")
	}

	return editorID, nil
}
