package db

import (
	"strings"

	"github.com/google/uuid"
)

// SQLiteDSN turns a path into a DSN with foreign keys enforced. An empty path
// or ":memory:" yields a private shared-cache in-memory database.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == ":memory:" {
		return "file:medstudy_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	}
	if strings.Contains(path, "?") {
		if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk") {
			return path
		}
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}
