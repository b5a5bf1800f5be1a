package avatar

import (
	"context"
	"fmt"
	"hash/fnv"
)

// StaticGenerator is the no-API-key fallback: it hands out a deterministic
// placeholder avatar URL seeded by the photo, so local development works
// without the generative backend.
type StaticGenerator struct{}

func (StaticGenerator) Generate(_ context.Context, photoDataURI string) (string, error) {
	_, data, err := DecodeDataURI(photoDataURI)
	if err != nil {
		return "", err
	}
	h := fnv.New32a()
	h.Write(data)
	return fmt.Sprintf("https://picsum.photos/seed/avatar-%d/400/600", h.Sum32()), nil
}
