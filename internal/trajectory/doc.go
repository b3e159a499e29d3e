// Package trajectory owns the keypoint displacement post-processing core.
//
// Responsibilities: per-channel delta computation with gap bridging over
// undetected (zero-valued) runs, threshold-windowed segmentation of the
// reference keypoint's displacement, and per-window aggregation across all
// channels.
// Key types: Table, DeltaResult, Segmenter, SummaryTable.
//
// Dependency rule: this package is pure computation. No SQL/database code,
// no file or network IO is allowed here; callers own loading and storage.
package trajectory
