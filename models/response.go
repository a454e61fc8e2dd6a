package models

type UploadResponse struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks"`
	FileID  string `json:"file_id"`
}

type ChatResponse struct {
	Response   string     `json:"response"`
	ChunksUsed []string   `json:"chunks_used"`
	History    []ChatTurn `json:"history"`
}
