// Package store provides the SQLite-backed customer and ticket records the
// customer-data agent operates on.
//
// Every operation returns a success/failure envelope rather than an error:
// the records travel back to the router as JSON an agent produced, and a
// lookup miss or validation problem is content for the model to reason
// about, not a fault in this process.
package store
