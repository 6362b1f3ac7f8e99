package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecPath is where the router serves the validated document.
const SpecPath = "/openapi.json"

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
	)
}

// Load parses an OpenAPI document from path, or from fallback when path is empty, and validates it.
func Load(ctx context.Context, path string, fallback []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	var (
		doc *openapi3.T
		err error
	)
	if path != "" {
		doc, err = loader.LoadFromFile(path)
	} else {
		doc, err = loader.LoadFromData(fallback)
	}
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// SpecHandler serves doc as JSON.
func SpecHandler(doc *openapi3.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := doc.MarshalJSON()
		if err != nil {
			http.Error(w, "failed to encode openapi document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}
