// Package export implements schematic.Writer for the formats schwire can
// produce: KiCad schematics (.kicad_sch), KiCad netlists, a JSON dump of the
// document model and a PNG preview.
//
// EAGLE symbol coordinates have Y pointing up while KiCad sheets have Y
// pointing down, so the sheet writers flip Y and shift the drawing onto the
// page. Library symbols keep their own coordinates.
package export
