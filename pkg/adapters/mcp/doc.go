// Package mcp exposes connection searches as Model Context Protocol tools,
// so that AI agents can ask how two works are related.
package mcp
