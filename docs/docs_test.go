package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocument(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath            string                     `json:"basePath"`
		SecurityDefinitions map[string]json.RawMessage `json:"securityDefinitions"`
		Paths               map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not valid json: %v", err)
	}
	if doc.Info.Title != "Soundstage API" || doc.BasePath != "/" {
		t.Fatalf("unexpected info: title=%q basePath=%q", doc.Info.Title, doc.BasePath)
	}
	if _, ok := doc.SecurityDefinitions["BearerAuth"]; !ok {
		t.Fatalf("BearerAuth security definition missing")
	}
	for _, path := range []string{"/auth/login", "/songs/{id}/like", "/comments/{id}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Fatalf("path %s missing", path)
		}
	}
}
