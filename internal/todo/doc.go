// Package todo owns the TaskNest task list.
//
// The whole list is stored as one JSON array under the key TASKNEST_TASKS of
// a kv.Backend:
//
//	[
//	  {
//	    "id": "01928f3e-6b1a-7c3d-9f00-1a2b3c4d5e6f",
//	    "title": "Ship release",
//	    "description": "",
//	    "priority": "High",
//	    "mood": "😊",
//	    "category": "Work",
//	    "completed": false,
//	    "createdAt": "2026-10-15T09:30:00.000Z",
//	    "dueDate": "2026-10-20T17:00:00Z"
//	  }
//	]
//
// # Read-modify-write
//
// There is no per-record API. Every mutation loads the full list, changes an
// in-memory copy and writes the full list back. Two mutations racing in the
// same process lose one write; callers are expected to run one at a time.
//
// # Validation
//
// Titles must be non-blank after trimming. Priority is one of Low, Medium,
// High. Category is one of Work, Personal, Health, Urgent, Finance, Ideas.
// SaveAll refuses a list that breaks any of these or repeats an id.
//
// # Corrupt data
//
// A stored value that is not a JSON array of task objects, or that fails the
// embedded JSON Schema, is corrupt. With CorruptFail (the default) LoadAll
// returns ErrCorruptData. With CorruptReset it logs a warning and returns an
// empty list; the next save overwrites the bad value.
//
// # Missing ids
//
// ToggleComplete and Edit against an id that is not in the list do nothing
// and report found=false. There is no single-task delete; ClearAll erases
// the entire backend, settings included.
package todo
