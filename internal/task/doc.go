// Package task defines the task entity and its status lifecycle.
//
// A task moves through three statuses:
//
//   - "TODO": newly created, not started
//   - "IN_PROGRESS": being worked on
//   - "DONE": complete
//
// Any status may be set from any other; re-marking a task with the status it
// already has only refreshes its updated timestamp.
//
// # Command Vocabulary
//
// The command line names statuses with lowercase tokens:
//
//	todo         -> TODO
//	in-progress  -> IN_PROGRESS
//	done         -> DONE
//
// # Values
//
// Task is a plain value. WithDescription and WithStatus return modified
// copies and never touch the receiver, so a Task read from the store can be
// held without aliasing the persisted collection.
package task
