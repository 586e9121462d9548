package types

// TrafficStats 用于报告流量统计信息
type TrafficStats struct {
	Accepted uint64 // connections accepted so far
	Uplink   uint64 // bytes written to clients
	Downlink uint64 // bytes read from clients
}
