// Copyright 2018, TERRA-REF project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Severity levels for audit messages
type Severity string

const (
	DEBUG Severity = "debug"
	INFO  Severity = "info"
	WARN  Severity = "warn"
	ERROR Severity = "error"
)

// LogContext provides the identifying information attached to every log line
type LogContext interface {
	AppName() string
	SessionID() string
}

// BasicLogContext is a minimal LogContext for callers without their own
type BasicLogContext struct {
	sessionID string
}

// AppName returns the default application name
func (c *BasicLogContext) AppName() string {
	return "terrautils"
}

// SessionID returns a session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

var logger = logrus.StandardLogger()

func contextFields(context LogContext) logrus.Fields {
	return logrus.Fields{
		"app":     context.AppName(),
		"session": context.SessionID(),
	}
}

// LogDebug logs a debug-level message
func LogDebug(context LogContext, message string) {
	logger.WithFields(contextFields(context)).Debug(message)
}

// LogInfo logs an informational message
func LogInfo(context LogContext, message string) {
	logger.WithFields(contextFields(context)).Info(message)
}

// LogAlert logs a warning that needs operator attention
func LogAlert(context LogContext, message string) {
	logger.WithFields(contextFields(context)).Warn(message)
}

// LogError logs a non-fatal error condition
func LogError(context LogContext, message string) {
	logger.WithFields(contextFields(context)).Error(message)
}

// LogSimpleErr logs a message and its underlying error, and returns an error
// carrying the operator-friendly message for the caller to propagate
func LogSimpleErr(context LogContext, message string, err error) error {
	logger.WithFields(contextFields(context)).WithError(err).Error(message)
	if err != nil {
		return fmt.Errorf("%v%v", message, err)
	}
	return fmt.Errorf("%v", message)
}

// LogAuditInput captures the actor/action/actee triple for audit logging
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

// LogAudit logs an audit record of a significant action, such as an outbound
// request to a collaborating service
func LogAudit(context LogContext, input LogAuditInput) {
	entry := logger.WithFields(contextFields(context)).WithFields(logrus.Fields{
		"actor":  input.Actor,
		"action": input.Action,
		"actee":  input.Actee,
	})
	switch input.Severity {
	case DEBUG:
		entry.Debug(input.Message)
	case WARN:
		entry.Warn(input.Message)
	case ERROR:
		entry.Error(input.Message)
	default:
		entry.Info(input.Message)
	}
}

// Error is a rich error for failures involving a collaborator response
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Log writes the full detail of the error and returns a simple error for
// the caller to propagate
func (e Error) Log(context LogContext, prefix string) error {
	message := e.LogMsg
	if prefix != "" {
		message = prefix + ": " + message
	}
	logger.WithFields(contextFields(context)).WithFields(logrus.Fields{
		"url":      e.URL,
		"status":   e.HTTPStatus,
		"response": e.Response,
	}).Error(message)
	if e.SimpleMsg != "" {
		return fmt.Errorf("%v", e.SimpleMsg)
	}
	return fmt.Errorf("%v", e.LogMsg)
}

// HTTPErr is an error carrying an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (e HTTPErr) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}
