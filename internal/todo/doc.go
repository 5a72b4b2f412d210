// Package todo defines task records and the stored collection format.
//
// The collection is stored as a single JSON array:
//
//	[
//	  {
//	    "id": 1718000000000,
//	    "title": "Buy milk",
//	    "completed": false,
//	    "createdAt": "2024-06-10T06:13:20.000Z"
//	  }
//	]
//
// # Ordering
//
// The array is kept in insertion order. New tasks are appended; updates
// never move a task.
//
// # Validation
//
// Decode checks the raw value against an embedded JSON Schema before
// unmarshalling. The schema requires:
//   - id: positive integer
//   - title: non-empty string
//   - completed: boolean
//   - createdAt: RFC 3339 date-time
//
// An empty or missing value is an empty collection.
//
// # File Format
//
// Encode writes compact JSON, so a value round-trips byte-for-byte through
// any key-value backend.
package todo
