// Package analysis defines the domain model exchanged with the energy project
// analysis service: the region and technology catalogs, the user selection,
// the analysis result and the decoding of the service's response shapes into
// that single model.
package analysis
