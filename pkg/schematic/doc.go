// Package schematic builds single-sheet schematics from declared component
// instances and pin-to-pin connections.
//
// # Overview
//
// The build process:
//  1. Load the component libraries (InitLibraries)
//  2. Declare device sets and their devices (InitDeviceSet, InitDevice)
//  3. Add instances; each gets the next reference designator for its prefix
//     and an auto-arranged position unless placed explicitly
//  4. Declare connections with Instance.Wire
//  5. Run WireUp, which:
//     - Resolves every pin's absolute position
//     - Groups connections into nets using union-find
//     - Routes each connection around the other instances
//     - Names each net after its component composition (net_Q1_R2)
//  6. Hand the resulting Document to a Writer
//
// # Usage
//
//	sch := schematic.New(symbol.Builtin(), nil)
//	_ = sch.InitLibraries("transistor-npn", "resistor-power")
//	bjt, _ := sch.InitDeviceSet("BJT_", "Q")
//	_ = sch.InitDevice(bjt, "TO92", "")
//	res, _ := sch.InitDeviceSet("RES_", "R")
//	_ = sch.InitDevice(res, "0207/10", "")
//
//	q1, _ := sch.AddInstance("BJT_", "TO92", "Q")
//	r1, _ := sch.AddInstance("RES_", "0207/10", "R")
//	q1.Wire("C", r1, "1")
//
//	doc, err := sch.WireUp()
//
// # Routing limitations
//
// Wires are routed one connection at a time against the bounding boxes of
// the other instances. A colliding segment is detoured once; wires of
// different nets may still overlap each other.
package schematic
