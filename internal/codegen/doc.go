package codegen

import (
	"strings"

	"github.com/bergundy/nexus-idl/internal/schema"
)

// ServiceDoc returns the service description, or a default naming the service
func ServiceDoc(svc schema.Service) string {
	if svc.Description != "" {
		return singleLine(svc.Description)
	}
	return "Service for " + svc.DisplayName() + "."
}

// OperationDoc returns the operation description, or a default naming the operation
func OperationDoc(op schema.Operation) string {
	if op.Description != "" {
		return singleLine(op.Description)
	}
	return "Operation for " + op.DisplayName() + "."
}

// lineBreaks flattens multi-line descriptions into one paragraph
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}
