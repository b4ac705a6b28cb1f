package engine

import "github.com/hsn0918/r3m/pkg/chunking"

// DocumentResult is the outcome of processing one document. Failures are
// data: ProcessingSuccess is false and ErrorMessage carries the reason.
type DocumentResult struct {
	TextContent   string            `json:"text_content"`
	FileName      string            `json:"file_name"`
	FileExtension string            `json:"file_extension"`
	MimeType      string            `json:"mime_type"`
	FileSize      int64             `json:"file_size"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	ProcessingSuccess bool    `json:"processing_success"`
	ErrorMessage      string  `json:"error_message,omitempty"`
	ProcessingTimeMs  float64 `json:"processing_time_ms"`

	ContentQualityScore float64 `json:"content_quality_score"`
	InformationDensity  float64 `json:"information_density"`
	IsHighQuality       bool    `json:"is_high_quality"`
	QualityReason       string  `json:"quality_reason,omitempty"`

	Chunks []chunking.DocumentChunk `json:"chunks,omitempty"`
}

// ProcessingStats is a run-wide counter snapshot, self-consistent under a
// single mutex.
type ProcessingStats struct {
	TotalFilesProcessed  int     `json:"total_files_processed"`
	SuccessfulProcessing int     `json:"successful_processing"`
	FailedProcessing     int     `json:"failed_processing"`
	FilteredOut          int     `json:"filtered_out"`
	AvgProcessingTimeMs  float64 `json:"avg_processing_time_ms"`
	TotalTextExtracted   int64   `json:"total_text_extracted"`

	AvgContentQualityScore float64 `json:"avg_content_quality_score"`

	PDFFilesProcessed  int `json:"pdf_files_processed"`
	TextFilesProcessed int `json:"text_files_processed"`
	HTMLFilesProcessed int `json:"html_files_processed"`

	WorkSteals    int     `json:"work_steals"`
	AvgTaskTimeMs float64 `json:"avg_task_time_ms"`
}

// BatchResult is the outcome of a filtered batch run.
type BatchResult struct {
	Results    []DocumentResult `json:"results"`
	TotalFiles int              `json:"total_files"`
	Accepted   int              `json:"accepted"`
	Filtered   int              `json:"filtered"`
}
