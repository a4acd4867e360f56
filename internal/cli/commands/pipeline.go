package commands

import (
	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/config"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/demo"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// buildPipeline loads the demo pipeline into a new kernel and compiles it.
// The kernel is returned even when compilation fails so its graph can be
// inspected.
func buildPipeline(cfg *config.Config, logger *zap.Logger, sink func(rt.LogData)) (*rt.Kernel, *demo.Pipeline, error) {
	opts := append(cfg.KernelOptions(), rt.WithLogger(logger))
	k := rt.NewKernel(opts...)

	p := demo.New(cfg.Demo, sink)
	if err := k.Use(p); err != nil {
		return k, p, err
	}
	return k, p, k.Compile()
}
