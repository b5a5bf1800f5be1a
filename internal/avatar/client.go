/**
* Name: 			client.go
* Description: 		외부 이미지 생성 서비스 클라이언트
* Workflow: 		사진 data URI 수신, 2D 아바타 생성, 아바타 data URI 반환
 */

package avatar

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const defaultAvatarModel = "gemini-2.0-flash-exp"

const avatarPrompt = "From the attached image, generate a simple, front-facing 2D vector-style avatar that captures the body shape of the person. The background should be transparent. Do not include any text or other elements. Output the image directly."

// Generator is the opaque image-generation capability: one encoded photo
// in, one encoded avatar out, or an explicit failure.
type Generator interface {
	Generate(ctx context.Context, photoDataURI string) (string, error)
}

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("NewGeminiGenerator(): API key is required")
	}
	if model == "" {
		model = defaultAvatarModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator(): failed to create client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, photoDataURI string) (string, error) {
	mimeType, data, err := DecodeDataURI(photoDataURI)
	if err != nil {
		return "", err
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(avatarPrompt),
	}, genai.RoleUser)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		log.Printf("GeminiGenerator.Generate(): generate failed: %v", err)
		return "", err
	}

	// 응답 파트 중 이미지 파트를 찾음
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return EncodeDataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	return "", errors.New("GeminiGenerator.Generate(): avatar image could not be generated")
}

// DecodeDataURI splits a "data:<mime>;base64,<data>" URI into its MIME type
// and raw bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, errors.New("DecodeDataURI(): not a data URI")
	}
	meta, encoded, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return "", nil, errors.New("DecodeDataURI(): missing data separator")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("DecodeDataURI(): only base64 data URIs are supported")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("DecodeDataURI(): invalid base64 payload: %w", err)
	}
	return mimeType, data, nil
}

func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
