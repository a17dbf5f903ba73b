package auth

import "context"

type contextKey string

const (
	contextKeyRoles      contextKey = "auth.roles"
	contextKeySubject    contextKey = "auth.subject"
	contextKeyRegisterNo contextKey = "auth.register_no"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, roles []Role, subject, registerNo string) context.Context {
	ctx = context.WithValue(ctx, contextKeyRoles, roles)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	ctx = context.WithValue(ctx, contextKeyRegisterNo, registerNo)
	return ctx
}

// RolesFromContext extracts the held roles from context.
func RolesFromContext(ctx context.Context) []Role {
	if ctx == nil {
		return nil
	}
	if roles, ok := ctx.Value(contextKeyRoles).([]Role); ok {
		return roles
	}
	return nil
}

// SubjectFromContext extracts the subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}

// RegisterNoFromContext extracts the caller's registration code from context.
func RegisterNoFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if registerNo, ok := ctx.Value(contextKeyRegisterNo).(string); ok {
		return registerNo
	}
	return ""
}
