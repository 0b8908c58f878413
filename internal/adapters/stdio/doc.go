// Package stdio provides line-oriented JSON collaborators so padship can be
// driven by an external process over pipes.
//
// Input lines, one per device reading:
//
//	{"gamepad":{"buttons":4096,"thumb_lx":100},"mouse":{"x":3,"y":-2,"buttons":1}}
//
// Either member may be omitted. Output lines carry one event each:
//
//	{"kind":"mouse","mouse":{"x":3,"y":-2,"buttons":1,"scroll":0}}
package stdio
