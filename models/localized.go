package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SupportedLocales lists the locales content can be authored in.
var SupportedLocales = []string{"en", "fr", "ar"}

// fallbackLocales is the resolution order tried after the requested locale.
var fallbackLocales = []string{"fr", "en", "ar"}

// LocalizedText stores an attribute as a locale → text mapping persisted as a
// single JSON column, e.g. {"en": "Hello", "fr": "Bonjour", "ar": "مرحبا"}.
type LocalizedText map[string]string

// Resolve returns the text for the requested locale, falling back through
// fr → en → ar and finally the first non-empty value in key order.
func (t LocalizedText) Resolve(locale string) string {
	if v := t[locale]; v != "" {
		return v
	}
	for _, lc := range fallbackLocales {
		if v := t[lc]; v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t[k] != "" {
			return t[k]
		}
	}
	return ""
}

// IsEmpty reports whether no locale carries a value.
func (t LocalizedText) IsEmpty() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer so gorm can persist the map as JSON.
func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for LocalizedText: %T", value)
	}
	return json.Unmarshal(data, t)
}

// GormDataType names the generic data type so gorm can parse the field.
func (LocalizedText) GormDataType() string {
	return "json"
}

// GormDBDataType picks the JSON column type per dialect.
func (LocalizedText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}

// StringList stores an ordered list of strings as a JSON array column
// (pack features, template and article tags).
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// GormDataType names the generic data type so gorm can parse the field.
func (StringList) GormDataType() string {
	return "json"
}

// GormDBDataType picks the JSON column type per dialect.
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}

// validLocale guards locale values that get interpolated into SQL fragments.
func validLocale(locale string) bool {
	for _, lc := range SupportedLocales {
		if lc == locale {
			return true
		}
	}
	return false
}

// LocaleContains is a gorm scope matching rows whose JSON column contains
// needle (case-insensitive) under the given locale key. PostgreSQL extracts
// with the ->> operator; SQLite emulates the path with json_extract.
func LocaleContains(column, locale, needle string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !validLocale(locale) {
			return db.Where("1 = 0")
		}
		if db.Dialector.Name() == "postgres" {
			return db.Where(fmt.Sprintf("%s->>'%s' ILIKE ?", column, locale), "%"+needle+"%")
		}
		return db.Where(
			fmt.Sprintf("LOWER(json_extract(%s, '$.%s')) LIKE ?", column, locale),
			"%"+strings.ToLower(needle)+"%",
		)
	}
}

// LocaleEquals is a gorm scope matching rows whose JSON column equals value
// exactly under the given locale key.
func LocaleEquals(column, locale, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !validLocale(locale) {
			return db.Where("1 = 0")
		}
		if db.Dialector.Name() == "postgres" {
			return db.Where(fmt.Sprintf("%s->>'%s' = ?", column, locale), value)
		}
		return db.Where(fmt.Sprintf("json_extract(%s, '$.%s') = ?", column, locale), value)
	}
}

// LocaleEqualsAny matches rows where any supported locale of the JSON column
// equals value. Used for localized slug lookups.
func LocaleEqualsAny(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var fragments []string
		var args []interface{}
		for _, lc := range SupportedLocales {
			if db.Dialector.Name() == "postgres" {
				fragments = append(fragments, fmt.Sprintf("%s->>'%s' = ?", column, lc))
			} else {
				fragments = append(fragments, fmt.Sprintf("json_extract(%s, '$.%s') = ?", column, lc))
			}
			args = append(args, value)
		}
		return db.Where(strings.Join(fragments, " OR "), args...)
	}
}

// LocaleContainsAny matches rows where any of the given JSON columns contains
// needle (case-insensitive) under the given locale key.
func LocaleContainsAny(columns []string, locale, needle string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !validLocale(locale) {
			return db.Where("1 = 0")
		}
		var fragments []string
		var args []interface{}
		for _, column := range columns {
			if db.Dialector.Name() == "postgres" {
				fragments = append(fragments, fmt.Sprintf("%s->>'%s' ILIKE ?", column, locale))
				args = append(args, "%"+needle+"%")
			} else {
				fragments = append(fragments, fmt.Sprintf("LOWER(json_extract(%s, '$.%s')) LIKE ?", column, locale))
				args = append(args, "%"+strings.ToLower(needle)+"%")
			}
		}
		return db.Where(strings.Join(fragments, " OR "), args...)
	}
}

// OrderByLocale orders by the scalar extracted for a locale. Collation is
// pinned to byte order so locale-aware database collations cannot reorder
// results between engines.
func OrderByLocale(column, locale string, desc bool) func(*gorm.DB) *gorm.DB {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return func(db *gorm.DB) *gorm.DB {
		if !validLocale(locale) {
			return db
		}
		if db.Dialector.Name() == "postgres" {
			return db.Order(fmt.Sprintf(`(%s->>'%s') COLLATE "C" %s`, column, locale, direction))
		}
		return db.Order(fmt.Sprintf("json_extract(%s, '$.%s') COLLATE BINARY %s", column, locale, direction))
	}
}
