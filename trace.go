package authz

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// authzTraceAttributes are the attributes that are added to all spans created
// by authorization checks. These attributes should help to debug slow spans.
func authzTraceAttributes(authentication Authentication, action string, extra ...attribute.KeyValue) trace.SpanStartOption {
	return trace.WithAttributes(
		append(extra,
			attribute.String("principal", authentication.Principal),
			attribute.String("realm", authentication.RealmName),
			attribute.String("authentication_type", string(authentication.Type)),
			attribute.String("action", action),
		)...)
}
