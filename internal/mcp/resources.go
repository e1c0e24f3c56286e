package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) weekSchemes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	schemes := make([]calc.WeekScheme, 0, calc.DeloadWeek)
	for week := 1; week <= calc.DeloadWeek; week++ {
		schemes = append(schemes, calc.WeekSchemeFor(week))
	}
	return jsonContents(req.Params.URI, schemes)
}

func (h *handlers) trainingMaxes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tms, err := h.svc.TrainingMaxes(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	rows := make([]models.TrainingMaxRow, 0, len(tms))
	for _, lift := range models.MainLifts {
		if row, ok := tms[lift]; ok {
			rows = append(rows, row)
		}
	}
	return jsonContents(req.Params.URI, rows)
}

func (h *handlers) personalRecords(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := h.svc.Records(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Warn("personal_records: query failed", "error", err)
		return nil, err
	}
	if records == nil {
		records = []models.PersonalRecordRow{}
	}
	return jsonContents(req.Params.URI, records)
}
