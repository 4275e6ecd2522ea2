// Package services contains domain services: stateless operations over
// aggregates that do not naturally belong to any single aggregate.
package services
