// Package config provides configuration structures and utilities for
// attackharvest. It defines the options for the reference scanners and the
// page-text harvester, the conventional file names the stages hand off
// through, and report generation preferences.
package config
