package events

// EventData is the interface that all event data types must implement
type EventData interface {
	EventType() EventType
}

// StressEvaluatedData contains data for StressEvaluated events
type StressEvaluatedData struct {
	RunID            string  `json:"run_id"`
	StressedValue    float64 `json:"stressed_value"`
	DeclinePct       float64 `json:"decline_pct"`
	VolatilityBreach bool    `json:"volatility_breach"`
	LiquidityBreach  bool    `json:"liquidity_breach"`
}

// EventType returns the event type for StressEvaluatedData
func (d *StressEvaluatedData) EventType() EventType {
	return StressEvaluated
}

// ScenariosEvaluatedData contains data for ScenariosEvaluated events
type ScenariosEvaluatedData struct {
	RunID     string   `json:"run_id"`
	Scenarios []string `json:"scenarios"`
	Breaches  int      `json:"breaches"` // scenarios with any breach flag set
}

// EventType returns the event type for ScenariosEvaluatedData
func (d *ScenariosEvaluatedData) EventType() EventType {
	return ScenariosEvaluated
}

// PortfolioImportedData contains data for PortfolioImported events
type PortfolioImportedData struct {
	Source     string  `json:"source"`
	Holdings   int     `json:"holdings"`
	TotalValue float64 `json:"total_value"`
}

// EventType returns the event type for PortfolioImportedData
func (d *PortfolioImportedData) EventType() EventType {
	return PortfolioImported
}

// MarketDataRefreshedData contains data for MarketDataRefreshed events
type MarketDataRefreshedData struct {
	Source  string `json:"source"`
	Indices int    `json:"indices"`
}

// EventType returns the event type for MarketDataRefreshedData
func (d *MarketDataRefreshedData) EventType() EventType {
	return MarketDataRefreshed
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
	Databases int    `json:"databases"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}
