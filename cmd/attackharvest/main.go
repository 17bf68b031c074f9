// Package main provides the entry point for the attackharvest CLI.
//
// attackharvest extracts canonical MITRE ATT&CK reference URLs from STIX
// bundle trees and harvests the rendered page text of each URL with a
// headless browser.
//
// Usage:
//
//	attackharvest techniques [root_dir] [output_file]
//	attackharvest mitigations [root_dir] [output_file]
//	attackharvest harvest --inputs mitre_technique_urls.txt --output texts
//
// See --help for all available options.
package main

// main is the entry point for attackharvest.
func main() {
	Execute()
}
