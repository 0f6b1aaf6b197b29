package dto

type GraphSearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	Label string `json:"label" validate:"omitempty,alpha"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type GraphNodeResponse struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
}

type GraphSearchResponse struct {
	Nodes []GraphNodeResponse `json:"nodes"`
	Total int                 `json:"total"`
}

type IngestDocumentRequest struct {
	Source  string `json:"source" validate:"required,oneof=sec reddit tiktok"`
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
	Ticker  string `json:"ticker" validate:"omitempty,max=10"`
}

type IngestDocumentResponse struct {
	DocumentID       string `json:"document_id"`
	TriplesExtracted int    `json:"triples_extracted"`
	NodesCreated     int    `json:"nodes_created"`
	EdgesCreated     int    `json:"edges_created"`
}
