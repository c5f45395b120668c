// Package model defines core data structures for TraceForge.
package model

import "time"

// Outcome is the sampled result label of a simulated call.
// An ERROR outcome is a label on the event, never a generation failure.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeError   Outcome = "ERROR"
)

// Quality is the coarse duration judgment attached to every event.
type Quality string

const (
	QualityPoor       Quality = "poor"
	QualityAcceptable Quality = "acceptable"
	QualityGood       Quality = "good"
	QualityExcellent  Quality = "excellent"
)

// Category is the functional family of a system call.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryFile
	CategoryProcess
	CategoryMemory
	CategoryRegistry
	CategoryLibrary
	CategoryThread
	CategoryFileSystem
	CategorySecurity
	CategorySystem
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "unknown",
	CategoryFile:       "file_operations",
	CategoryProcess:    "process_management",
	CategoryMemory:     "memory_operations",
	CategoryRegistry:   "registry_operations",
	CategoryLibrary:    "library_management",
	CategoryThread:     "thread_operations",
	CategoryFileSystem: "file_system",
	CategorySecurity:   "security_operations",
	CategorySystem:     "system_operations",
}

// String returns the schema-facing name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory maps a schema-facing name back to a Category.
func ParseCategory(s string) Category {
	for c, name := range categoryNames {
		if name == s {
			return c
		}
	}
	return CategoryUnknown
}

// Event represents a single simulated system call in an event log.
// Events are created once by the generator and never mutated afterward.
type Event struct {
	// Core process mining attributes.
	CaseID    string
	Activity  string
	Timestamp time.Time
	Resource  string

	// Process context.
	WorkflowType     string
	BusinessProcess  string
	Stage            string
	StageDescription string

	// Technical details.
	PID      int
	TID      int
	FilePath string
	Category Category

	// Performance metrics and labels.
	DurationMS     float64
	Result         Outcome
	IsBottleneck   bool
	BottleneckType string
	Quality        Quality
	AnomalyScore   float64
}
