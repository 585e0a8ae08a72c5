package cloudevents

// CloudEvents extension attribute names
const (
	ExtStationID     = "stationid"
	ExtCorrelationID = "stationcorrelationid"
	ExtTraceParent   = "traceparent"
	ExtTraceState    = "tracestate"
)

// Extensions returns the populated extension attributes keyed by name
func (e *StationCloudEvent) Extensions() map[string]string {
	ext := make(map[string]string, 4)
	if e.StationID != "" {
		ext[ExtStationID] = e.StationID
	}
	if e.CorrelationID != "" {
		ext[ExtCorrelationID] = e.CorrelationID
	}
	if e.TraceParent != "" {
		ext[ExtTraceParent] = e.TraceParent
	}
	if e.TraceState != "" {
		ext[ExtTraceState] = e.TraceState
	}
	return ext
}

// WithCorrelation sets the correlation id and returns the event
func (e *StationCloudEvent) WithCorrelation(correlationID string) *StationCloudEvent {
	e.CorrelationID = correlationID
	return e
}
