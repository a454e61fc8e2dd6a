package models

// EmbedContentRequest is the wire format of the Gemini embedContent endpoint.
type EmbedContentRequest struct {
	Model   string       `json:"model"`
	Content EmbedContent `json:"content"`
}

type EmbedContent struct {
	Parts []EmbedPart `json:"parts"`
}

type EmbedPart struct {
	Text string `json:"text"`
}

// EmbedContentResponse carries the embedding vector back from the API.
type EmbedContentResponse struct {
	Embedding EmbedValues `json:"embedding"`
}

type EmbedValues struct {
	Values []float32 `json:"values"`
}
