package dto

type FileTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// FileAnalyticsResponse summarizes uploads by MIME category.
type FileAnalyticsResponse struct {
	TotalFiles      int             `json:"totalFiles"`
	MostPopularType string          `json:"mostPopularType"`
	ByType          []FileTypeCount `json:"byType"`
}
