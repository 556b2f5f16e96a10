// Package tourfile reads and writes tour documents.
//
// A document is YAML (JSON documents parse through the same decoder):
//
//	tours:
//	  - description: add parser
//	    visible: true
//	    stops:
//	      - file: parse.go
//	        before: {start: 10, end: 12}
//	        after: {start: 10, end: 14}
//
// A tour without a visible key is visible.
package tourfile
