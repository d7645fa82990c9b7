// Package format turns search results into text, markdown and JSON reports.
package format
