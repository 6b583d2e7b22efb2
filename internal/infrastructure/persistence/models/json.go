package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONList is a slice stored as a JSON array in a single column.
// A nil slice is written as [] so the column is never NULL.
type JSONList[T any] []T

// Value implements driver.Valuer for database storage
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (l *JSONList[T]) Scan(value any) error {
	if value == nil {
		*l = JSONList[T]{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan JSONList: unsupported type")
	}
	if len(data) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*l = items
	return nil
}

// GormDataType tells gorm the generic column type
func (JSONList[T]) GormDataType() string {
	return "json"
}

// GormDBDataType picks jsonb on postgres and text elsewhere
func (JSONList[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
