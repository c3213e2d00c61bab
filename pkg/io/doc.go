// Package io reads and writes box files and solution documents.
//
// # Box Files
//
// A box file lists one box per line as three whitespace-separated positive
// integers, height first:
//
//	# height width depth
//	10 5 8
//	5 8 10
//	8 5 10
//
// Blank lines and lines starting with '#' are skipped. Use [ImportBoxes] to
// read a file by path, or [ReadBoxes] to read from any io.Reader. Malformed
// lines fail with an INVALID_FORMAT error naming the 1-based line number;
// non-positive dimensions fail with INVALID_BOX. [WriteBoxes] emits the same
// format, so a tower printed with it can be fed back in as input.
//
// # Solutions
//
// A solved tower is exchanged as JSON:
//
//	{
//	  "algorithm": "dp",
//	  "height": 15,
//	  "boxes": [
//	    {"height": 5, "width": 8, "depth": 10},
//	    {"height": 10, "width": 5, "depth": 8}
//	  ]
//	}
//
// Boxes are listed bottom to top. [ReadSolution] and [ImportSolution] check
// that the boxes form a valid tower and that the stated height matches, so a
// hand-edited document cannot describe an impossible stack.
package io
