package domain

import "time"

// ThreadStatus describes what one compute thread is doing right now
type ThreadStatus struct {
	Thread    uint32    `json:"thread"`
	HasWork   bool      `json:"has_work"`
	Primorial uint32    `json:"primorial"`
	Nonce     uint32    `json:"nonce"`
	Bits      uint32    `json:"bits"`
	WorkSince time.Time `json:"work_since"`
	Found     uint64    `json:"found"`
	Exhausted uint64    `json:"exhausted"`
}

// MinerStatus is the externally visible status of the whole client
type MinerStatus struct {
	SessionID  string         `json:"session_id"`
	Label      string         `json:"label"`
	Address    string         `json:"address"`
	State      string         `json:"state"`
	Server     string         `json:"server"`
	Threads    []ThreadStatus `json:"threads"`
	Stats      StatsSnapshot  `json:"stats"`
	ReportedAt time.Time      `json:"reported_at"`
}
