// Package converter runs the REST-to-MCP pipeline: endpoint analysis,
// controller configuration, project scaffolding.
package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yourorg/rest2mcp/internal/config"
	"github.com/yourorg/rest2mcp/internal/sanitize"
	"github.com/yourorg/rest2mcp/internal/scaffold"
	"github.com/yourorg/rest2mcp/internal/store"
	"github.com/yourorg/rest2mcp/pkg/types"
)

// Pipeline stage names as recorded in the history store.
const (
	StageAnalyze    = "analyze"
	StageController = "controller"
)

// Converter sequences the three pipeline stages. All collaborators are
// injected so tests can substitute a stub model client.
type Converter struct {
	cfg    *config.Config
	client ModelClient
	store  store.Store
	logger *slog.Logger
}

// New builds a Converter. The store may be nil, in which case no history
// is recorded.
func New(cfg *config.Config, client ModelClient, st store.Store, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{cfg: cfg, client: client, store: st, logger: logger}
}

// Convert runs analyze, generate and scaffold against outputPath. Every
// failure is converted into an error Result; a failure after scaffolding
// has started performs no cleanup of partially written output.
func (c *Converter) Convert(ctx context.Context, endpoint, outputPath string) types.Result {
	var convID string
	if c.store != nil {
		if conv, err := c.store.CreateConversion(endpoint, outputPath, c.cfg.LLM.Model); err == nil {
			convID = conv.ID
		} else {
			c.logger.Warn("record conversion", "error", err)
		}
	}

	res := c.run(ctx, convID, endpoint, outputPath)

	if c.store != nil && convID != "" {
		if err := c.store.UpdateConversionResult(convID, res.Status, res.Message); err != nil {
			c.logger.Warn("update conversion result", "error", err)
		}
	}
	return res
}

func (c *Converter) run(ctx context.Context, convID, endpoint, outputPath string) types.Result {
	redacted := sanitize.Redact(endpoint, c.cfg.Sanitize)

	c.logger.Info("analyzing endpoint", "endpoint", redacted)
	analysis, raw, err := AnalyzeEndpoint(ctx, c.client, redacted)
	c.recordStage(convID, StageAnalyze, raw, err)
	if err != nil {
		return types.ErrorResult(fmt.Errorf("analyze endpoint: %w", err))
	}

	c.logger.Info("generating controller configuration")
	controller, raw, err := GenerateControllerConfig(ctx, c.client, analysis)
	c.recordStage(convID, StageController, raw, err)
	if err != nil {
		return types.ErrorResult(fmt.Errorf("generate controller config: %w", err))
	}

	c.logger.Info("scaffolding project", "output", outputPath)
	settings := scaffold.Settings{
		Name:       c.cfg.Project.Name,
		Version:    c.cfg.Project.Version,
		Package:    c.cfg.Project.Package,
		ServerPort: c.cfg.Server.Port,
	}
	if _, err := scaffold.Generate(settings, controller, outputPath); err != nil {
		return types.ErrorResult(fmt.Errorf("scaffold project: %w", err))
	}

	return types.Result{
		Status:  types.StatusSuccess,
		Message: fmt.Sprintf("MCP server generated successfully at %s", outputPath),
		Config:  controller,
	}
}

func (c *Converter) recordStage(convID, stage, raw string, stageErr error) {
	if c.store == nil || convID == "" {
		return
	}
	out := &types.StageOutput{
		ConversionID: convID,
		Stage:        stage,
		Status:       "ok",
		RawOutput:    raw,
		Model:        c.cfg.LLM.Model,
	}
	if stageErr != nil {
		out.Status = "failed"
		out.ErrorMsg = stageErr.Error()
	}
	if err := c.store.SaveStageOutput(out); err != nil {
		c.logger.Warn("record stage output", "stage", stage, "error", err)
	}
}
