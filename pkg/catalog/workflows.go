package catalog

import (
	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// Workflow template identifiers.
const (
	WorkflowDocumentEditing   = "document_editing"
	WorkflowWebBrowsing       = "web_browsing"
	WorkflowFileManagement    = "file_management"
	WorkflowAntivirusScan     = "antivirus_scan"
	WorkflowSystemMaintenance = "system_maintenance"
)

// Stage is one ordered phase of a workflow with its own candidate
// activity set. Stages are traversed strictly in declared order.
type Stage struct {
	Name        string
	Description string
	Activities  []string
}

// BottleneckPattern names a set of activities that incur elevated
// duration whenever they appear in the owning workflow, regardless of
// whether they were drawn via the stage path or the noise path.
type BottleneckPattern struct {
	Label      string
	Activities []string
}

// Template is a reusable, immutable definition of a business process.
type Template struct {
	ID          string
	Description string
	Executable  string
	Stages      []Stage
	Patterns    []BottleneckPattern
	Weight      float64
}

// BottleneckLabel returns the label of the first declared pattern that
// contains the activity, and whether any pattern matched.
func (t *Template) BottleneckLabel(activity string) (string, bool) {
	for _, p := range t.Patterns {
		for _, a := range p.Activities {
			if a == activity {
				return p.Label, true
			}
		}
	}
	return "", false
}

// WorkflowCatalog is the immutable collection of workflow templates and
// their relative selection weights.
type WorkflowCatalog struct {
	templates   []Template
	byID        map[string]*Template
	totalWeight float64
}

// NewWorkflowCatalog builds the catalog from the fixed template set and
// validates every referenced activity against the activity catalog.
func NewWorkflowCatalog(acts *ActivityCatalog) (*WorkflowCatalog, error) {
	return buildWorkflowCatalog(defaultTemplates(), acts)
}

func buildWorkflowCatalog(templates []Template, acts *ActivityCatalog) (*WorkflowCatalog, error) {
	c := &WorkflowCatalog{
		templates: templates,
		byID:      make(map[string]*Template, len(templates)),
	}
	for i := range c.templates {
		t := &c.templates[i]
		if t.Weight < 0 {
			return nil, tferrors.New(tferrors.CodeCatalogInvalid, "negative template weight").
				WithContext("workflow", t.ID)
		}
		if len(t.Stages) == 0 {
			return nil, tferrors.New(tferrors.CodeCatalogInvalid, "template has no stages").
				WithContext("workflow", t.ID)
		}
		for _, s := range t.Stages {
			if len(s.Activities) == 0 {
				return nil, tferrors.New(tferrors.CodeEmptyStage, "stage has no candidate activities").
					WithContext("workflow", t.ID).
					WithContext("stage", s.Name)
			}
			for _, a := range s.Activities {
				if !acts.Contains(a) {
					return nil, tferrors.New(tferrors.CodeCatalogInvalid, "stage references unknown activity").
						WithContext("workflow", t.ID).
						WithContext("stage", s.Name).
						WithContext("activity", a)
				}
			}
		}
		for _, p := range t.Patterns {
			for _, a := range p.Activities {
				if !acts.Contains(a) {
					return nil, tferrors.New(tferrors.CodeCatalogInvalid, "bottleneck pattern references unknown activity").
						WithContext("workflow", t.ID).
						WithContext("pattern", p.Label).
						WithContext("activity", a)
				}
			}
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, tferrors.New(tferrors.CodeCatalogInvalid, "duplicate template id").
				WithContext("workflow", t.ID)
		}
		c.byID[t.ID] = t
		c.totalWeight += t.Weight
	}
	if c.totalWeight <= 0 {
		return nil, tferrors.New(tferrors.CodeCatalogInvalid, "catalog has no positive selection weight")
	}
	return c, nil
}

// Templates returns all templates in declaration order. Callers must
// not mutate the returned slice.
func (c *WorkflowCatalog) Templates() []Template {
	return c.templates
}

// Lookup returns the template with the given id.
func (c *WorkflowCatalog) Lookup(id string) (*Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// TotalWeight returns the sum of all template weights.
func (c *WorkflowCatalog) TotalWeight() float64 {
	return c.totalWeight
}

// Len returns the number of templates.
func (c *WorkflowCatalog) Len() int {
	return len(c.templates)
}

func defaultTemplates() []Template {
	return []Template{
		{
			ID:          WorkflowDocumentEditing,
			Description: "Document Creation and Editing Workflow",
			Executable:  "notepad.exe",
			Stages: []Stage{
				{"Application_Startup", "Application initialization",
					[]string{"CreateProcess", "LoadLibrary", "RegOpenKey", "RegQueryValue"}},
				{"File_Opening", "Opening existing document",
					[]string{"CreateFile", "ReadFile", "GetFileSize"}},
				{"Content_Modification", "Editing document content",
					[]string{"WriteFile", "VirtualAlloc", "SetFilePointer"}},
				{"Auto_Save", "Automatic saving",
					[]string{"WriteFile", "FlushFileBuffers", "SetFileTime"}},
				{"File_Closing", "Saving and closing document",
					[]string{"WriteFile", "CloseHandle", "RegCloseKey"}},
				{"Application_Shutdown", "Clean application termination",
					[]string{"FreeLibrary", "TerminateProcess"}},
			},
			Patterns: []BottleneckPattern{
				{"large_file_io", []string{"ReadFile", "WriteFile"}},
				{"memory_pressure", []string{"VirtualAlloc"}},
			},
			Weight: 0.25,
		},
		{
			ID:          WorkflowWebBrowsing,
			Description: "Web Browser Session Workflow",
			Executable:  "chrome.exe",
			Stages: []Stage{
				{"Browser_Startup", "Browser initialization with multiple threads",
					[]string{"CreateProcess", "LoadLibrary", "VirtualAlloc", "CreateThread"}},
				{"Profile_Loading", "Loading user profile and settings",
					[]string{"CreateFile", "ReadFile", "RegOpenKey", "RegQueryValue"}},
				{"Network_Request", "Making HTTP requests and loading content",
					[]string{"CreateFile", "WriteFile", "ReadFile", "WaitForSingleObject"}},
				{"Cache_Management", "Managing browser cache",
					[]string{"CreateFile", "WriteFile", "DeleteFile", "VirtualAlloc"}},
				{"Tab_Management", "Opening/closing tabs and memory management",
					[]string{"CreateThread", "TerminateThread", "VirtualAlloc", "VirtualFree"}},
				{"Browser_Shutdown", "Saving state and closing browser",
					[]string{"WriteFile", "CloseHandle", "ExitThread", "TerminateProcess"}},
			},
			Patterns: []BottleneckPattern{
				{"memory_allocation", []string{"VirtualAlloc", "CreateThread"}},
				{"network_latency", []string{"WaitForSingleObject", "ReadFile"}},
			},
			Weight: 0.30,
		},
		{
			ID:          WorkflowFileManagement,
			Description: "File Explorer Operations Workflow",
			Executable:  "explorer.exe",
			Stages: []Stage{
				{"Explorer_Startup", "Windows Explorer initialization",
					[]string{"CreateProcess", "LoadLibrary", "RegOpenKey"}},
				{"Directory_Enumeration", "Listing directory contents",
					[]string{"CreateFile", "ReadFile", "FindFirstFile", "FindNextFile"}},
				{"File_Operations", "File system operations",
					[]string{"CopyFile", "MoveFile", "DeleteFile", "CreateDirectory"}},
				{"Property_Viewing", "Reading file properties",
					[]string{"GetFileAttributes", "GetFileSize", "GetFileTime"}},
				{"Thumbnail_Generation", "Generating file thumbnails",
					[]string{"CreateFile", "ReadFile", "VirtualAlloc", "WriteFile"}},
			},
			Patterns: []BottleneckPattern{
				{"directory_scan", []string{"FindFirstFile", "FindNextFile"}},
				{"file_access", []string{"CreateFile", "ReadFile"}},
			},
			Weight: 0.20,
		},
		{
			ID:          WorkflowAntivirusScan,
			Description: "Antivirus File Scanning Workflow",
			Executable:  "guardian.exe",
			Stages: []Stage{
				{"Scanner_Initialization", "Antivirus engine startup",
					[]string{"CreateProcess", "LoadLibrary", "RegOpenKey", "CreateThread"}},
				{"Definition_Update", "Updating virus definitions",
					[]string{"CreateFile", "ReadFile", "WriteFile", "VerifySignature"}},
				{"File_Scanning", "Scanning files for threats",
					[]string{"CreateFile", "ReadFile", "AnalyzeFile", "CheckSignature"}},
				{"Threat_Detection", "Handling detected threats",
					[]string{"QuarantineFile", "WriteFile", "LogEvent"}},
				{"Report_Generation", "Creating scan reports",
					[]string{"CreateFile", "WriteFile", "RegSetValue"}},
			},
			Patterns: []BottleneckPattern{
				{"deep_scan", []string{"AnalyzeFile", "CheckSignature"}},
				{"file_access", []string{"ReadFile", "CreateFile"}},
			},
			Weight: 0.15,
		},
		{
			ID:          WorkflowSystemMaintenance,
			Description: "System Background Tasks Workflow",
			Executable:  "system",
			Stages: []Stage{
				{"Task_Scheduler", "Scheduling system tasks",
					[]string{"CreateProcess", "WaitForSingleObject", "SetTimer"}},
				{"Registry_Maintenance", "Registry cleanup and maintenance",
					[]string{"RegOpenKey", "RegQueryValue", "RegSetValue", "RegCloseKey"}},
				{"Memory_Management", "System memory optimization",
					[]string{"VirtualAlloc", "VirtualFree", "HeapCompact"}},
				{"Disk_Cleanup", "Temporary file cleanup",
					[]string{"DeleteFile", "FindFirstFile", "RemoveDirectory"}},
			},
			Patterns: []BottleneckPattern{
				{"synchronization", []string{"WaitForSingleObject"}},
				{"registry_access", []string{"RegQueryValue", "RegSetValue"}},
			},
			Weight: 0.10,
		},
	}
}
