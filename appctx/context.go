package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyUserName      = ContextKey("UserName")
	ContextKeyCorrelationId = ContextKey("CorrelationId")

	// ContextKeyCanOverridePMFrequency is true for users allowed to apply
	// per-asset frequency overrides. Enforced on the override write paths;
	// frequency resolution honours whatever override is persisted.
	ContextKeyCanOverridePMFrequency = ContextKey("CanOverridePMFrequency")

	// ContextKeyIncludeArchived disables the implicit deleted_at IS NULL
	// filter for a read. Use sparingly (internal ops only).
	ContextKeyIncludeArchived = ContextKey("IncludeArchived")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetBool(ctx context.Context, key ContextKey) (bool, bool) {
	v, ok := ctx.Value(key).(bool)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
