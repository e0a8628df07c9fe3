//go:build windows

package transformer

import (
	"github.com/born-ml/axgraph/internal/backend/webgpu"
	"github.com/born-ml/axgraph/internal/tensor"
)

func init() {
	Register("webgpu", func(Config) (tensor.Backend, error) {
		return webgpu.New()
	})
}
