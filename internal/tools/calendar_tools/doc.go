// Package calendar_tools exposes the course calendar operations as MCP
// tools: listing, creating, and deleting events, plus clearing the whole
// date window. Mutating tools are withheld in read-only mode.
package calendar_tools
