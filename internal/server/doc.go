// Package server provides the HTTP serving pieces of the canvasctl MCP
// server, currently a dedicated metrics server that exposes Prometheus
// metrics and a health check on their own port, separate from the MCP
// transport.
package server
