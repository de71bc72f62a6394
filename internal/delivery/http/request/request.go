package request

// ExtractRequest asks for a synchronous extraction.
type ExtractRequest struct {
	URL        string `json:"url"`
	PageBudget int    `json:"page_budget"` // 0 selects the server default
	Force      bool   `json:"force"`       // bypass the corpus cache
}

// SubmitJobRequest queues an extraction for a background worker.
type SubmitJobRequest struct {
	URL        string `json:"url"`
	PageBudget int    `json:"page_budget"`
}
