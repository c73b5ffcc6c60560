package db

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// schemaFS holds the schema DDL, one statement per file, named
// <version>_<name>.sql. Files of the same version run in lexical order.
//
//go:embed schema/*.sql
var schemaFS embed.FS

type schemaFile struct {
	version int
	name    string
	sql     string
}

// schemaFiles returns the DDL files with from < version <= to.
func schemaFiles(from, to int) ([]schemaFile, error) {
	names, err := fs.Glob(schemaFS, "schema/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob schema: %w", err)
	}

	var files []schemaFile
	for _, name := range names {
		base := path.Base(name)
		prefix, _, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("schema file %s: missing version prefix", base)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("schema file %s: bad version prefix: %w", base, err)
		}
		if version <= from || version > to {
			continue
		}

		data, err := fs.ReadFile(schemaFS, name)
		if err != nil {
			return nil, fmt.Errorf("read schema file %s: %w", base, err)
		}
		files = append(files, schemaFile{version: version, name: base, sql: string(data)})
	}

	// Glob is lexical, so "10_x" sorts before "2_x".
	sort.SliceStable(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}
