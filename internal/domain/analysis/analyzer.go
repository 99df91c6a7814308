package analysis

import "context"

// VisionRequest is one photo sent to the vision analyzer
type VisionRequest struct {
	Image       []byte
	ContentType string
	CaptureType CaptureType
}

// VisionReply is the raw text answer of the analyzer and the model that produced it
type VisionReply struct {
	Content string
	Model   string
}

// VisionAnalyzer describes clothing on a photo. Implementations live in the
// infrastructure layer (OpenAI, Gemini).
type VisionAnalyzer interface {
	AnalyzeImage(ctx context.Context, req VisionRequest) (*VisionReply, error)
}
