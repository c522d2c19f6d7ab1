package config

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/lead"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
	anthropicoracle "github.com/hupe1980/expertmesh/oracle/anthropic"
	openaioracle "github.com/hupe1980/expertmesh/oracle/openai"
	"github.com/hupe1980/expertmesh/tool"
)

// Build assembles a Lead from a validated config. Provider credentials come
// from the environment (ANTHROPIC_API_KEY, OPENAI_API_KEY) via the SDKs.
func Build(cfg *Config, logger logging.Logger) (*lead.Lead, error) {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	experts := make([]*expert.Expert, 0, len(cfg.Experts))
	for _, ec := range cfg.Experts {
		e, err := buildExpert(ec, logger)
		if err != nil {
			return nil, err
		}
		experts = append(experts, e)
	}

	var poolOracle oracle.Oracle
	if cfg.Oracle != nil {
		orc, err := buildOracle(cfg.Oracle.Provider, cfg.Oracle.Model)
		if err != nil {
			return nil, err
		}
		poolOracle = orc
	}

	return lead.New(experts, func(o *lead.Options) {
		if cfg.Strategy != "" {
			o.Strategy, _ = core.ParseStrategy(cfg.Strategy)
		}
		if cfg.MaxExperts > 0 {
			o.MaxExperts = cfg.MaxExperts
		}
		if cfg.TimeoutSeconds > 0 {
			o.ExpertTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		o.RoutingOracle = poolOracle
		o.SynthesisOracle = poolOracle
		o.Logger = logger
	})
}

func buildExpert(ec ExpertConfig, logger logging.Logger) (*expert.Expert, error) {
	orc, err := buildOracle(ec.Provider, ec.Model)
	if err != nil {
		return nil, fmt.Errorf("expert %q: %w", ec.Name, err)
	}

	tools, err := buildTools(ec.Tools)
	if err != nil {
		return nil, fmt.Errorf("expert %q: %w", ec.Name, err)
	}

	return expert.New(ec.Name, ec.Domain, orc, func(o *expert.Options) {
		o.Keywords = ec.Keywords
		if ec.Confidence > 0 {
			o.Confidence = ec.Confidence
		}
		o.Tools = tools
		if ec.Instruction != "" {
			o.Instruction = ec.Instruction
		}
		o.Logger = logger
	})
}

func buildOracle(provider, model string) (oracle.Oracle, error) {
	switch provider {
	case "anthropic":
		return anthropicoracle.New(func(o *anthropicoracle.Options) {
			if model != "" {
				o.Model = anthropic.Model(model)
			}
		}), nil
	case "openai":
		return openaioracle.New(func(o *openaioracle.Options) {
			if model != "" {
				o.Model = model
			}
		}), nil
	case "mock", "":
		name := model
		if name == "" {
			name = "mock-oracle"
		}
		return oracle.NewMock(name), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", provider)
	}
}

func buildTools(names []string) ([]tool.Tool, error) {
	tools := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		switch name {
		case tool.NameCalculator:
			tools = append(tools, tool.NewCalculator())
		case tool.NameLookup:
			tools = append(tools, tool.NewLookup(nil))
		case tool.NameEcho:
			tools = append(tools, tool.NewEcho())
		default:
			return nil, fmt.Errorf("unknown builtin tool %q", name)
		}
	}
	return tools, nil
}
