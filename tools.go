//go:build tools

package tools

// mockery is used as an installed binary (v2, see .mockery.yaml), so no
// import is needed. Run: mockery (from the module root) to regenerate
// pkg/console/mocks.
