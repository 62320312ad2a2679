// Package plugins hosts protocol plugin subpackages. It contains no
// production runtime code itself; this file exists so the architectural guard
// test alongside it belongs to a buildable package.
//
// Plugin packages depend only on the stable facades in pkg/pluginapi and
// pkg/menu. The guard test below this directory enforces that none of them
// imports the internal domain model directly.
package plugins
