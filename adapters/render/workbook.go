package render

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"hoaxlens/models"
)

// RenderNetworkWorkbook exports the spread-network report as an Excel
// workbook with metrics, influence, and community sheets.
func (r *Renderer) RenderNetworkWorkbook(report *models.NetworkReport) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeMetricsSheet(f, report); err != nil {
		return "", err
	}
	if err := writeInfluenceSheet(f, report.InfluentialNodes); err != nil {
		return "", err
	}
	if err := writeCommunitySheet(f, report.Communities); err != nil {
		return "", err
	}

	path := filepath.Join(r.vizDir, fmt.Sprintf("network_%d.xlsx", time.Now().UnixNano()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	r.logger.Info("network workbook written to %s", path)
	return path, nil
}

func writeMetricsSheet(f *excelize.File, report *models.NetworkReport) error {
	sheet := "Sheet1"
	if err := f.SetSheetName(sheet, "Metrics"); err != nil {
		return err
	}
	sheet = "Metrics"

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Nodes", report.Metrics.NumNodes},
		{"Edges", report.Metrics.NumEdges},
		{"Density", report.Metrics.Density},
		{"Components", report.Metrics.NumComponents},
		{"Largest component", report.Metrics.LargestComponentSize},
		{"Average degree", report.Metrics.AvgDegree},
		{"Viral potential", report.Patterns.ViralPotential},
		{"Echo chamber score", report.Patterns.EchoChamber},
		{"Bot influence", report.Patterns.BotInfluence},
		{"Spread velocity", report.Patterns.SpreadVelocity},
		{"Spread type", report.SpreadType},
		{"Risk score", report.RiskScore},
		{"Risk level", report.RiskLevel},
	}
	return writeRows(f, sheet, rows)
}

func writeInfluenceSheet(f *excelize.File, nodes []models.InfluentialNode) error {
	sheet := "Influence"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Node", "Label", "Role", "Followers", "Influence", "PageRank", "Degree centrality"},
	}
	for _, node := range nodes {
		rows = append(rows, []interface{}{
			node.NodeID, node.Label, node.Role, node.Followers,
			node.InfluenceScore, node.PageRank, node.DegreeCentrality,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeCommunitySheet(f *excelize.File, report models.CommunityReport) error {
	sheet := "Communities"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Community", "Size", "Density", "Members"},
	}
	for _, community := range report.Communities {
		members := ""
		for i, node := range community.Nodes {
			if i > 0 {
				members += ", "
			}
			members += node
		}
		rows = append(rows, []interface{}{community.CommunityID, community.Size, community.Density, members})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Method", report.Method},
		[]interface{}{"Modularity", report.Modularity},
	)
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
