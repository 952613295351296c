// Package config provides configuration structures and utilities for
// regionreport. It defines the input and output locations, optional
// report formats, run history settings and logging preferences.
//
// Values are layered in this order, later layers winning:
//  1. Defaults from NewConfig
//  2. The YAML configuration file (.regionreport)
//  3. Environment variables prefixed with REGIONREPORT_
//  4. Command line flags the user set explicitly
package config
