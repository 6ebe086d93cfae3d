package models

// IngestMatchRequest triggers ingestion of one provider match.
type IngestMatchRequest struct {
	ProviderMatchID string `json:"provider_match_id" validate:"required,min=1,max=100"`
	Analyze         bool   `json:"analyze"`
}

// IngestMatchResponse reports the created (or already known) match.
type IngestMatchResponse struct {
	MatchID  string `json:"match_id"`
	Created  bool   `json:"created"`
	Analysis string `json:"analysis,omitempty"`
}
