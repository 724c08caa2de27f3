// Package layoutio converts editor elements to and from the layout JSON
// consumed by the display firmware and the layout service.
//
// # Wire Format
//
// A layout is an array of records in device space. Every record carries
// id, type, x, y (the anchor point, rounded to whole pixels), anchor, width
// and height. Depending on the type it adds:
//
//   - text:   text, level
//   - button: text, callback ("/api/button/<id>"), filled, radius,
//     padding_x, padding_y, level
//   - image:  text ("/api/images/<id>", the image path), inverted (false)
//
// Documents wrap the array as {"elements": [...]} and, once stored, gain a
// "metadata" object. [ReadJSON] accepts both the bare array and the
// document form.
//
// # Import
//
// [Import] is the inverse of [Export]: records get fresh IDs 1..n, missing
// width, height and anchor are defaulted, and every anchor position is
// mapped back to a display-space top-left corner. Numeric ranges are taken
// as-is; clamping is left to interactive edits.
package layoutio
