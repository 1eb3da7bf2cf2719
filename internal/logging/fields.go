package logging

// Structured field names shared by every log call.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Run configuration.
	FieldMode  = "mode"
	FieldMain  = "main_file"
	FieldWrite = "write"
	FieldCheck = "check"
	FieldJobs  = "jobs"

	// Template resolution and alignment.
	FieldLayer    = "layer"
	FieldSlots    = "slots"
	FieldExpected = "expected"
	FieldTemplate = "template"
	FieldShadowed = "shadowed"
	FieldBackup   = "backup"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesErrored    = "files_errored"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
