package models

const APIVersion = "2.0.0"

type HealthResponse struct {
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	SumtymeAvailable  bool   `json:"sumtyme_available"`
	ClientInitialized bool   `json:"client_initialized"`
	APIVersion        string `json:"api_version"`
}
