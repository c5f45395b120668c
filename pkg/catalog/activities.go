// Package catalog holds the fixed activity and workflow definitions the
// generator draws from. Catalogs are built once at startup and are
// immutable afterward; construction fails fast on any inconsistency.
package catalog

import (
	"github.com/traceforge/traceforge/internal/model"
)

// familyGroup keeps the declaration order of activities stable so that
// the flattened pool, and therefore seeded generation, is deterministic.
type familyGroup struct {
	category   model.Category
	activities []string
}

var activityFamilies = []familyGroup{
	{model.CategoryFile, []string{
		"CreateFile", "ReadFile", "WriteFile", "CloseHandle", "DeleteFile",
		"CopyFile", "MoveFile", "GetFileSize", "SetFilePointer", "FlushFileBuffers",
	}},
	{model.CategoryProcess, []string{
		"CreateProcess", "TerminateProcess", "OpenProcess", "GetProcessId",
	}},
	{model.CategoryMemory, []string{
		"VirtualAlloc", "VirtualFree", "HeapAlloc", "HeapFree", "MapViewOfFile",
	}},
	{model.CategoryRegistry, []string{
		"RegOpenKey", "RegQueryValue", "RegSetValue", "RegCloseKey", "RegCreateKey",
	}},
	{model.CategoryLibrary, []string{
		"LoadLibrary", "GetProcAddress", "FreeLibrary",
	}},
	{model.CategoryThread, []string{
		"CreateThread", "ExitThread", "TerminateThread", "WaitForSingleObject",
	}},
	{model.CategoryFileSystem, []string{
		"FindFirstFile", "FindNextFile", "CreateDirectory", "RemoveDirectory",
		"GetFileAttributes", "SetFileAttributes", "GetFileTime", "SetFileTime",
	}},
	{model.CategorySecurity, []string{
		"AnalyzeFile", "CheckSignature", "VerifySignature", "QuarantineFile",
	}},
	{model.CategorySystem, []string{
		"SetTimer", "HeapCompact", "LogEvent",
	}},
}

// ActivityCatalog categorizes every known system call into exactly one
// functional family and exposes the flattened pool used for noise
// injection. The pool is precomputed at construction so noise draws stay
// O(1) per event.
type ActivityCatalog struct {
	byName map[string]model.Category
	pool   []string
}

// NewActivityCatalog builds the catalog from the fixed family table.
func NewActivityCatalog() *ActivityCatalog {
	c := &ActivityCatalog{
		byName: make(map[string]model.Category),
	}
	for _, fam := range activityFamilies {
		for _, name := range fam.activities {
			c.byName[name] = fam.category
			c.pool = append(c.pool, name)
		}
	}
	return c
}

// Category returns the functional family of an activity. Unrecognized
// names return CategoryUnknown, which indicates a catalog/template
// mismatch bug rather than an expected runtime condition.
func (c *ActivityCatalog) Category(activity string) model.Category {
	if cat, ok := c.byName[activity]; ok {
		return cat
	}
	return model.CategoryUnknown
}

// Contains reports whether the activity is a known system call.
func (c *ActivityCatalog) Contains(activity string) bool {
	_, ok := c.byName[activity]
	return ok
}

// Pool returns the precomputed flattened pool of all known activities,
// in declaration order. Callers must not mutate it.
func (c *ActivityCatalog) Pool() []string {
	return c.pool
}

// Len returns the number of known activities.
func (c *ActivityCatalog) Len() int {
	return len(c.pool)
}
