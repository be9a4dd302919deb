// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/serializer"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err's code to an HTTP status and writes it.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	message := err.Error()
	var details map[string]any
	var se *errors.StructuredError
	if stderrors.As(err, &se) {
		message = se.Message
		details = se.Context
	}
	WriteError(w, r, statusFor(code), code, message, retryable(code), details)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case errors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func retryable(code errors.ErrorCode) bool {
	switch code {
	case errors.ErrCodeTimeout, errors.ErrCodeUnavailable, errors.ErrCodeRateLimitExceeded, errors.ErrCodeInternal:
		return true
	default:
		return false
	}
}
