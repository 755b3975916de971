package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/handler"
	"github.com/unidash/unidash-api/internal/policy"
)

type stubBatchService struct {
	batches dto.ModuleBatchesResponse
}

func (s stubBatchService) ListModuleBatches(context.Context, uint, uint) (dto.ModuleBatchesResponse, error) {
	return s.batches, nil
}

func (s stubBatchService) EditRights(context.Context, uint, uint, int) (dto.EditRightsResponse, error) {
	return dto.EditRightsResponse{}, nil
}

type stubContentService struct{}

func (stubContentService) GetSnapshot(context.Context, uint, int) (dto.SnapshotResponse, error) {
	return dto.SnapshotResponse{}, nil
}

func (stubContentService) SaveSnapshot(context.Context, uint, uint, dto.SaveSnapshotRequest) (dto.SaveResult, error) {
	return dto.SaveResult{}, nil
}

func (stubContentService) Clone(context.Context, uint, uint, dto.CloneRequest) (dto.CloneResult, error) {
	return dto.CloneResult{}, nil
}

func TestModuleBatchesContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "module_batches.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	older := now.Add(-96 * time.Hour)

	svc := stubBatchService{batches: dto.ModuleBatchesResponse{
		UserBatchNumber: 24,
		DefaultBatch:    22,
		AvailableBatches: []policy.BatchSummary{
			{BatchNumber: 24},
			{BatchNumber: 23, HasPaperStructure: true, PaperUpdatedAt: &older},
			{
				BatchNumber:       22,
				HasContent:        true,
				HasPaperStructure: true,
				HasCAs:            true,
				ContentUpdatedAt:  &now,
				PaperUpdatedAt:    &older,
				CAUpdatedAt:       &older,
				LecturerName:      "Dr. Wickrama",
			},
			{BatchNumber: 21, HasContent: true, ContentUpdatedAt: &older},
		},
	}}

	contentHandler := handler.NewModuleContentHandler(svc, stubContentService{}, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/modules", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	})
	contentHandler.Register(group, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/modules/1/batches", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
