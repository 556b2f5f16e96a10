// Package report assembles the output document for a tour run.
//
// [Build] flattens tours into [Report] form, assigns each stop its stable ID
// and annotates it with the IDs of the stops it is most closely related to.
// Every run gets a fresh RunID.
package report
