// Package notes содержит SQL-миграции схемы заметок.
package notes

import "embed"

// FS встроенные файлы миграций.
//
//go:embed *.sql
var FS embed.FS
