package calibrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// GenerateConsoleReport formats a calibration pack for terminal output
func GenerateConsoleReport(pack *models.CalibrationPack) string {
	var builder strings.Builder
	builder.WriteString("Calibration Report\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Version: %s\n", pack.Version))
	builder.WriteString(fmt.Sprintf("League: %s\n", pack.League))
	builder.WriteString(fmt.Sprintf("Train Window: %s to %s (%d records)\n",
		pack.TrainWindow.Start.Format("2006-01-02"), pack.TrainWindow.End.Format("2006-01-02"), pack.Metadata.TrainRecords))
	builder.WriteString(fmt.Sprintf("Test Window: %s to %s (%d records)\n",
		pack.TestWindow.Start.Format("2006-01-02"), pack.TestWindow.End.Format("2006-01-02"), pack.Metadata.TestRecords))
	for _, market := range models.AllMarketTypes() {
		if threshold, ok := pack.EdgeThresholds[market]; ok {
			builder.WriteString(fmt.Sprintf("Threshold %s: %.1f%%\n", market, threshold*100))
		}
	}
	builder.WriteString(fmt.Sprintf("Kelly Fraction: %.2f (cap %.1f%%)\n", pack.KellyPolicy.Fraction, pack.KellyPolicy.Cap*100))
	builder.WriteString("Test Metrics\n")
	builder.WriteString(fmt.Sprintf("  Bets: %d\n", pack.TestMetrics.NBets))
	builder.WriteString(fmt.Sprintf("  ROI: %s\n", formatRatio(pack.TestMetrics.ROI, true)))
	builder.WriteString(fmt.Sprintf("  Hit Rate: %s\n", formatRatio(pack.TestMetrics.HitRate, true)))
	builder.WriteString(fmt.Sprintf("  Sharpe: %s\n", formatRatio(pack.TestMetrics.Sharpe, false)))
	builder.WriteString(fmt.Sprintf("  Max Drawdown: %.2f%%\n", pack.TestMetrics.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("  Brier Score: %s\n", formatRatio(pack.TestMetrics.BrierScore, false)))
	builder.WriteString(fmt.Sprintf("  Log Loss: %s\n", formatRatio(pack.TestMetrics.LogLoss, false)))
	builder.WriteString(fmt.Sprintf("Excluded Records: %d\n", pack.Metadata.ExcludedRecords))
	return builder.String()
}

// ExportPackJSON writes the pack to disk as indented JSON
func ExportPackJSON(pack *models.CalibrationPack, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calibration pack: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ExportBinsCSV writes the reliability bins for spreadsheet plotting
func ExportBinsCSV(bins []models.ReliabilityBin, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var buf strings.Builder
	buf.WriteString("lower,upper,count,wins,empirical_rate,mean_predicted\n")
	for _, bin := range bins {
		buf.WriteString(formatFloat(bin.Lower))
		buf.WriteString(",")
		buf.WriteString(formatFloat(bin.Upper))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(bin.Count))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(bin.Wins))
		buf.WriteString(",")
		buf.WriteString(formatOptional(bin.EmpiricalRate))
		buf.WriteString(",")
		buf.WriteString(formatOptional(bin.MeanPredicted))
		buf.WriteString("\n")
	}
	return os.WriteFile(outputPath, []byte(buf.String()), 0o644)
}

func formatRatio(v *float64, percent bool) string {
	if v == nil {
		return "undefined"
	}
	if percent {
		return fmt.Sprintf("%.2f%%", *v*100)
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
