package gen

import (
	"math/rand"
	"strings"

	"github.com/traceforge/traceforge/pkg/catalog"
)

// pathContext is a named group of plausible resource paths.
type pathContext struct {
	name  string
	paths []string
}

var pathContexts = []pathContext{
	{"user_documents", []string{
		`C:\Users\Student\Documents\thesis_chapter1.docx`,
		`C:\Users\Student\Documents\research_notes.txt`,
		`C:\Users\Student\Documents\presentation.pptx`,
	}},
	{"system_files", []string{
		`C:\Windows\System32\kernel32.dll`,
		`C:\Windows\System32\user32.dll`,
		`C:\Program Files\Common Files\system.dll`,
	}},
	{"temp_files", []string{
		`C:\Temp\cache_12345.tmp`,
		`C:\Users\Student\AppData\Local\Temp\session.tmp`,
		`C:\Windows\Temp\update_cache.tmp`,
	}},
	{"downloads", []string{
		`C:\Users\Student\Downloads\research_paper.pdf`,
		`C:\Users\Student\Downloads\software_installer.exe`,
		`C:\Users\Student\Downloads\dataset.csv`,
	}},
	{"application_files", []string{
		`C:\Program Files\Application\config.ini`,
		`C:\Program Files\Browser\profile.dat`,
		`C:\Program Files\Antivirus\definitions.db`,
	}},
}

// workflowContexts maps a workflow type to the path contexts it
// plausibly touches. Workflows without a mapping fall back to temp files.
var workflowContexts = map[string][]string{
	catalog.WorkflowDocumentEditing:   {"user_documents", "temp_files"},
	catalog.WorkflowWebBrowsing:       {"temp_files", "downloads", "application_files"},
	catalog.WorkflowFileManagement:    {"user_documents", "downloads", "system_files"},
	catalog.WorkflowAntivirusScan:     {"system_files", "user_documents", "downloads"},
	catalog.WorkflowSystemMaintenance: {"system_files", "temp_files"},
}

// PathResolver assigns contextually plausible resource paths to
// filesystem-touching activities.
type PathResolver struct {
	byName map[string][]string
}

// NewPathResolver builds the resolver from the fixed context table.
func NewPathResolver() *PathResolver {
	r := &PathResolver{byName: make(map[string][]string, len(pathContexts))}
	for _, pc := range pathContexts {
		r.byName[pc.name] = pc.paths
	}
	return r
}

// Resolve returns a plausible path for the activity within the given
// workflow, or "" when the activity does not imply a filesystem object.
func (r *PathResolver) Resolve(activity, workflowType string, rng *rand.Rand) string {
	if !strings.Contains(activity, "File") && !strings.Contains(activity, "Directory") {
		return ""
	}

	contexts, ok := workflowContexts[workflowType]
	if !ok {
		contexts = []string{"temp_files"}
	}
	paths := r.byName[contexts[rng.Intn(len(contexts))]]
	return paths[rng.Intn(len(paths))]
}
