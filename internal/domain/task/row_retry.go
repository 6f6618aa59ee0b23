package task

import "vendure/importer/internal/domain"

type RowRetryTask struct {
	Row        domain.RawProductRow `json:"row"`         // Full row snapshot so a restart can replay it
	SourceName string               `json:"source_name"` // File the row came from
	RowNumber  int                  `json:"row_number"`  // 1-based data row index
	RetryCount int                  `json:"retry_count"` // Number of times this row has been retried
	Error      string               `json:"error"`       // Error message from the original failure
}

func (t *RowRetryTask) TaskType() string {
	return "RowRetryTask"
}

func (t *RowRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
