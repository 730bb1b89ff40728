package utils

import (
	"context"

	"github.com/meditrack/cmms_backend/appctx"
)

var (
	ContextKeyUserName      = appctx.ContextKeyUserName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId

	ContextKeyCanOverridePMFrequency = appctx.ContextKeyCanOverridePMFrequency
	ContextKeyIncludeArchived        = appctx.ContextKeyIncludeArchived
)

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func CanOverridePMFrequency(ctx context.Context) bool {
	v, ok := appctx.GetBool(ctx, ContextKeyCanOverridePMFrequency)
	return ok && v
}

func IncludeArchived(ctx context.Context) bool {
	v, ok := appctx.GetBool(ctx, ContextKeyIncludeArchived)
	return ok && v
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetCanOverridePMFrequencyInContext(ctx context.Context, allowed bool) context.Context {
	return appctx.Set(ctx, ContextKeyCanOverridePMFrequency, allowed)
}

func SetIncludeArchivedInContext(ctx context.Context, include bool) context.Context {
	return appctx.Set(ctx, ContextKeyIncludeArchived, include)
}
