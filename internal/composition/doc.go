// Package composition is the test-suite side of a composition dump.
//
// A Suite reads the device node once during setup, keeps the typed tree and
// its annotated document for the tests that follow, and optionally writes the
// dump files. Problems found by individual tests are recorded as notices and
// can be turned into a fatal failure of the running test.
package composition
