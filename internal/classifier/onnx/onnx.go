// Package onnx runs an exported sequence classifier through the OpenCV dnn
// module. It is kept apart from package classifier so the recognizer core
// builds without OpenCV.
package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/classifier"
)

// Model is a classifier.Model backed by an ONNX network.
type Model struct {
	mu  sync.Mutex
	net gocv.Net
}

// Load reads the model at path.
func Load(path string) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", path)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Model{net: net}, nil
}

// Run implements classifier.Model.
func (m *Model) Run(input *classifier.Tensor) (*classifier.Tensor, error) {
	buf := make([]byte, 4*len(input.Data))
	for i, v := range input.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	blob, err := gocv.NewMatWithSizesFromBytes(input.Shape, gocv.MatTypeCV32F, buf)
	if err != nil {
		return nil, fmt.Errorf("build input blob: %w", err)
	}
	defer blob.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.net.SetInput(blob, "")
	output := m.net.Forward("")
	defer output.Close()

	if output.Empty() {
		return nil, fmt.Errorf("forward pass produced no output")
	}
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	return &classifier.Tensor{
		Shape: output.Size(),
		Data:  append([]float32(nil), data...),
	}, nil
}

// Close releases the network.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.Close()
}
