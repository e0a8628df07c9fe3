package transformer

import (
	"github.com/born-ml/axgraph/internal/backend/cpu"
	"github.com/born-ml/axgraph/internal/parallel"
	"github.com/born-ml/axgraph/internal/tensor"
)

func init() {
	Register("cpu", func(cfg Config) (tensor.Backend, error) {
		if cfg.Workers > 0 {
			return cpu.NewWithConfig(parallel.WithWorkers(cfg.Workers)), nil
		}
		return cpu.New(), nil
	})
}
