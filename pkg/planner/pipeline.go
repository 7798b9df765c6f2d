package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"ai-travelplanner-be/internal/pkg/logger"
	"ai-travelplanner-be/pkg/agent"
	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/retrieval"
	"ai-travelplanner-be/pkg/telemetry"
)

// Config carries the pipeline tunables.
type Config struct {
	// MaxAttempts bounds every retry-until-valid loop, the integrator
	// included.
	MaxAttempts int
	// BudgetRisk enables the budget and risk stages. When off, both are
	// synthesized as empty placeholders to save tokens.
	BudgetRisk bool
}

// Pipeline orchestrates plan generation. The stage topology is fixed:
// planner, then budget and risk in parallel when enabled, then the
// integrator which owns the terminal schema contract.
type Pipeline struct {
	provider  llm.Provider
	assembler *retrieval.Assembler
	cfg       Config
	log       logger.ILogger
	audit     logger.ILogger
}

// NewPipeline builds a pipeline. assembler and the loggers may be nil.
func NewPipeline(provider llm.Provider, assembler *retrieval.Assembler, cfg Config, log logger.ILogger, audit logger.ILogger) *Pipeline {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Pipeline{provider: provider, assembler: assembler, cfg: cfg, log: log, audit: audit}
}

// Generate runs the full pipeline for one request. userID scopes the memory
// retrieval channel and is empty for anonymous requests.
func (p *Pipeline) Generate(ctx context.Context, req PlanRequest, userID string) (*PlanResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sink := telemetry.NewUsageSink()
	caller := agent.NewCaller(p.provider, sink)
	runner := agent.NewRunner(caller, p.cfg.MaxAttempts)
	language := req.LanguageName()

	var retrieved retrieval.Context
	if p.assembler != nil {
		retrieved = p.assembler.Assemble(ctx, retrieval.Query{
			UserID:      userID,
			Origin:      req.Origin,
			Destination: req.Destination,
			StartDate:   req.StartDate,
			Days:        req.Days,
			BudgetText:  req.BudgetText,
			Preferences: req.Preferences,
			Constraints: req.Constraints,
		})
	}

	skeleton, err := runner.Run(ctx, plannerSystem(language), plannerUser(req, retrieved), nil)
	if err != nil {
		p.logUsage(sink)
		return nil, fmt.Errorf("planner stage: %w", err)
	}
	p.auditStage("planner_output", skeleton)

	skeletonJSON := mustJSON(skeleton)
	budgetInfo, riskInfo, err := p.runBudgetRisk(ctx, runner, skeletonJSON, req, language)
	if err != nil {
		p.logUsage(sink)
		return nil, err
	}

	resp, err := p.integrate(ctx, caller, req, language, skeletonJSON, mustJSON(budgetInfo), mustJSON(riskInfo))
	p.logUsage(sink)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// runBudgetRisk runs the two middle stages. They share the planner skeleton
// but not each other's output, so they run concurrently.
func (p *Pipeline) runBudgetRisk(ctx context.Context, runner *agent.Runner, skeletonJSON string, req PlanRequest, language string) (map[string]interface{}, map[string]interface{}, error) {
	if !p.cfg.BudgetRisk {
		return map[string]interface{}{
				"budget_breakdown": map[string]interface{}{},
				"alternatives":     []interface{}{},
			}, map[string]interface{}{
				"risks": []interface{}{},
				"fixes": []interface{}{},
			}, nil
	}

	var (
		wg         sync.WaitGroup
		budgetInfo map[string]interface{}
		budgetErr  error
		riskInfo   map[string]interface{}
		riskErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		budgetInfo, budgetErr = runner.Run(ctx, budgetSystem(language), budgetUser(skeletonJSON, req.BudgetLine(), req.Travelers), nil)
	}()
	go func() {
		defer wg.Done()
		riskInfo, riskErr = runner.Run(ctx, riskSystem(language), riskUser(skeletonJSON), nil)
	}()
	wg.Wait()

	if budgetErr != nil {
		return nil, nil, fmt.Errorf("budget stage: %w", budgetErr)
	}
	if riskErr != nil {
		return nil, nil, fmt.Errorf("risk stage: %w", riskErr)
	}
	p.auditStage("budget_output", budgetInfo)
	p.auditStage("risk_output", riskInfo)
	return budgetInfo, riskInfo, nil
}

// integrate owns the terminal contract: extract, decode, validate, and on
// failure re-prompt with a terse correction rather than a full rebuild.
func (p *Pipeline) integrate(ctx context.Context, caller *agent.Caller, req PlanRequest, language, skeletonJSON, budgetJSON, riskJSON string) (*PlanResponse, error) {
	system := integratorSystem(language)
	prompt := integratorUser(skeletonJSON, budgetJSON, riskJSON, responseSchemaJSON, req)

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		content, err := caller.Call(ctx, system, prompt)
		if err != nil {
			return nil, fmt.Errorf("integrator stage: %w", err)
		}

		data, err := agent.ExtractJSONObject(content)
		if err == nil {
			var resp *PlanResponse
			resp, err = DecodeResponse(data, req)
			if err == nil {
				p.auditStage("integrator_output", data)
				return resp, nil
			}
			err = fmt.Errorf("%w: %v", agent.ErrSchemaValidation, err)
		}

		lastErr = err
		prompt = fmt.Sprintf(integratorCorrectionTemplate, err)
		if p.log != nil {
			p.log.Warn("planner.pipeline", "integrator attempt failed, re-prompting", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
		}
	}

	return nil, &agent.ExhaustedError{Attempts: p.cfg.MaxAttempts, Last: lastErr}
}

func (p *Pipeline) auditStage(stage string, output map[string]interface{}) {
	if p.audit == nil {
		return
	}
	p.audit.Info("planner.pipeline", stage, map[string]interface{}{"output": output})
}

func (p *Pipeline) logUsage(sink *telemetry.UsageSink) {
	if p.audit == nil {
		return
	}
	calls, total, avg := sink.Summary()
	if calls == 0 {
		return
	}
	p.audit.Info("planner.pipeline", "llm token usage", map[string]interface{}{
		"calls":            calls,
		"total_tokens":     total,
		"avg_total_tokens": avg,
	})
}

func mustJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		// Maps produced by json.Unmarshal always re-marshal.
		return "{}"
	}
	return strings.TrimSpace(string(raw))
}
