package graph

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	Threshold float64         `json:"threshold"`
	Topology  *TopologyReport `json:"topology"`
	Bridges   *BridgeReport   `json:"bridges"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 5,
		TopN:         20,
	}
}

// Analyze runs the topology and bridge analyses over g
func Analyze(g *Knowledge, config *AnalyzerConfig) *AnalysisReport {
	return &AnalysisReport{
		Threshold: g.Threshold,
		Topology:  ComputeTopology(g, config.HubThreshold, config.TopN),
		Bridges:   ComputeBridges(g),
	}
}
