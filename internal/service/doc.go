// Package service contains the application use cases: accounts, card set
// management, learning runs, multiple-choice tests and the dashboard views.
//
// Services read and write whole collections through the store package. Every
// mutation loads the current collection, applies the change to fresh data and
// commits it conditionally, so concurrent writers on a shared backend never
// lose each other's updates.
//
// Services take their clock and random source as dependencies so that
// scheduling and shuffling are deterministic in tests.
package service
