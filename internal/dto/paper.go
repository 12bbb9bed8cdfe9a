package dto

import "time"

// PaperExportResponse is returned when a paper export is queued.
type PaperExportResponse struct {
	JobID       string    `json:"job_id"`
	ExamID      int64     `json:"exam_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
