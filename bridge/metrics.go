package bridge

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a Listener and its Sessions.
// Counters can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// SessionOpenCount indicates the number of sessions opened.
	SessionOpenCount atomic.Uint64
	// SessionCloseCount indicates the number of sessions closed.
	SessionCloseCount atomic.Uint64
	// SessionGauge indicates the number of sessions currently live.
	SessionGauge atomic.Int64

	// QueryCount indicates the number of position queries served.
	QueryCount atomic.Uint64
	// MoveCount indicates the number of move commands served.
	MoveCount atomic.Uint64
	// StopCount indicates the number of stop commands served.
	StopCount atomic.Uint64
	// InvalidCount indicates the number of unrecognized client commands.
	InvalidCount atomic.Uint64

	// DeviceErrCount indicates the number of device interaction failures.
	DeviceErrCount atomic.Uint64
}

func (m *Metrics) incSessionOpenCount() {
	m.SessionOpenCount.Add(1)
	m.SessionGauge.Add(1)
}

func (m *Metrics) incSessionCloseCount() {
	m.SessionCloseCount.Add(1)
	m.SessionGauge.Add(-1)
}

func (m *Metrics) incQueryCount() {
	m.QueryCount.Add(1)
}

func (m *Metrics) incMoveCount() {
	m.MoveCount.Add(1)
}

func (m *Metrics) incStopCount() {
	m.StopCount.Add(1)
}

func (m *Metrics) incInvalidCount() {
	m.InvalidCount.Add(1)
}

func (m *Metrics) incDeviceErrCount() {
	m.DeviceErrCount.Add(1)
}
