// Package tasks implements the upload orchestration engine.
//
// The core abstraction is [UploadEngine], which drives the per-account,
// per-file upload loop: eligible accounts come from the ledger, candidates
// from the catalog, the browser agent performs the upload, and history plus
// ledger are persisted synchronously after every confirmed success. Any
// login or upload failure aborts the whole run (crash-fast); the restart
// [Supervisor] relaunches the process and the persisted stores guarantee the
// rerun resumes without duplicate work.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
