package models

import (
	"context"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// ToggleActiveModel flips is_active on any model carrying that column.
func ToggleActiveModel[T any](ctx context.Context, db *gorm.DB, id int, isActive bool) (*T, error) {
	result, err := utils.FetchModel[T](ctx, db, id)
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(result).Update("is_active", isActive).Error
	if err != nil {
		return nil, utils.WrapStoreError("toggle active", err)
	}
	return result, nil
}

// liveNameExists reports whether a live row of T already uses name
// (case-insensitive), optionally scoped by an extra condition. excludeId
// skips the row being updated. Inactive rows still count: a toggled-off
// row can be reactivated, so its name stays reserved. Only archived
// (soft-deleted) rows free their name.
func liveNameExists[T any](ctx context.Context, db *gorm.DB, name string, excludeId int, scopeCond string, scopeArgs ...interface{}) (bool, error) {
	var model T
	query := db.WithContext(ctx).Model(&model).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}
	if scopeCond != "" {
		query = query.Where(scopeCond, scopeArgs...)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, utils.WrapStoreError("duplicate check", err)
	}
	return count > 0, nil
}

// archiveReference describes one table that can block an archive.
type archiveReference struct {
	Referer string
	Count   func() (int64, error)
}

// refuseArchiveIfReferenced soft-delete-archives nothing; it only checks.
// The first non-zero referer count refuses the archive naming the count.
func refuseArchiveIfReferenced(entity string, id int, refs []archiveReference) error {
	for _, ref := range refs {
		count, err := ref.Count()
		if err != nil {
			return err
		}
		if count > 0 {
			return &utils.CannotArchiveError{
				Entity:     entity,
				Id:         id,
				References: count,
				Referer:    ref.Referer,
			}
		}
	}
	return nil
}
