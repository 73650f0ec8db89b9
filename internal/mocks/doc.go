// Package mocks provides shared test doubles for the auth and account
// interfaces used by the API layer.
//
// Each mock exposes function fields for per-test behaviour and falls back to
// simple canned values when a field is nil:
//
//	jwtService := &mocks.MockJWTService{Token: "test-token"}
//	users := mocks.NewMockUserService()
package mocks
