package dto

// ExportQuery is the query string of the export endpoints.
// Count stays a string so out-of-range or non-numeric input can be clamped
// to the nearest valid count instead of being rejected.
type ExportQuery struct {
	Count  string `form:"count"`
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv XLSX CSV"`
}

// PublishedExportResponse describes an export stored by the server
type PublishedExportResponse struct {
	FileName     string `json:"file_name"`
	Location     string `json:"location"`
	ContentType  string `json:"content_type"`
	Bytes        int    `json:"bytes"`
	Orders       int    `json:"orders"`
	Rows         int    `json:"rows"`
	Unidentified int    `json:"unidentified"`
}
