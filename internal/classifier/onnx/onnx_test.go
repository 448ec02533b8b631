package onnx

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/classifier"
)

var _ classifier.Model = (*Model)(nil)

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.onnx")); err == nil {
		t.Fatal("expected error for missing model file")
	}
}
