// Package server provides the HTTP observability endpoint: Prometheus
// metrics, health and per-channel statistics. It carries no frame
// traffic; bits enter the system through the channel manager directly.
package server
