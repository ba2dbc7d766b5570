package store

import "github.com/yourorg/rest2mcp/pkg/types"

type Store interface {
	CreateConversion(endpoint, outputPath, model string) (*types.Conversion, error)
	GetConversion(id string) (*types.Conversion, error)
	UpdateConversionResult(id, status, message string) error
	ListConversions() ([]types.Conversion, error)
	DeleteConversion(id string) error

	SaveStageOutput(out *types.StageOutput) error
	GetStageOutputs(conversionID string) ([]types.StageOutput, error)

	Close() error
}
