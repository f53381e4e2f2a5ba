// Package report renders traceability artifacts for download.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/graph"
)

const rtmSheet = "Traceability Matrix"

// columns defines the matrix header row.
var columns = []string{
	"Requirement ID",
	"Requirement",
	"Page",
	"Priority",
	"Test ID",
	"Test Title",
	"Compliance ID",
	"Compliance Standard",
	"Confidence",
	"Link Kind",
}

// WriteRTM renders one requirement traceability matrix workbook: one row per
// traceability chain record, plus rows for requirements with no chains so
// coverage gaps stay visible.
func WriteRTM(w io.Writer, snapshot domain.KnowledgeGraph, summaries []domain.RequirementSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), rtmSheet); err != nil {
		return fmt.Errorf("report.WriteRTM: rename sheet: %w", err)
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("report.WriteRTM: header cell: %w", err)
		}
		if err := f.SetCellValue(rtmSheet, cell, col); err != nil {
			return fmt.Errorf("report.WriteRTM: header cell: %w", err)
		}
	}

	row := 2
	for _, node := range snapshot.Nodes {
		if node.Type != domain.NodeRequirement {
			continue
		}
		records, err := graph.Chains(node.ID, &snapshot, summaries)
		if err != nil {
			return fmt.Errorf("report.WriteRTM: chains for %s: %w", node.ID, err)
		}
		if len(records) == 0 {
			records = []domain.ChainRecord{{
				RequirementID:   node.ID,
				RequirementText: node.Text,
			}}
		}
		for _, rec := range records {
			if err := writeRecord(f, row, &node, rec); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report.WriteRTM: write workbook: %w", err)
	}
	return nil
}

func writeRecord(f *excelize.File, row int, req *domain.GraphNode, rec domain.ChainRecord) error {
	values := []interface{}{
		rec.RequirementID,
		rec.RequirementText,
		req.PageNumber,
		string(req.Priority),
		rec.TestID,
		rec.TestTitle,
		rec.ComplianceID,
		rec.ComplianceTitle,
		rec.Confidence,
		linkKind(rec),
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("report.WriteRTM: row %d: %w", row, err)
		}
		if err := f.SetCellValue(rtmSheet, cell, v); err != nil {
			return fmt.Errorf("report.WriteRTM: row %d: %w", row, err)
		}
	}
	return nil
}

func linkKind(rec domain.ChainRecord) string {
	switch {
	case rec.Inferred:
		return "inferred"
	case rec.Direct:
		return "direct"
	case rec.ComplianceID == "" && rec.TestID == "":
		return "uncovered"
	default:
		return "test-mediated"
	}
}
