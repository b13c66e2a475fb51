// Package config loads the runtime configuration of custclean.
//
// # Configuration Sources
//
// Values are resolved in the following order of precedence:
//
//  1. Command-line flags (applied by the caller through Overrides)
//  2. Environment variables, optionally seeded from a .env file
//  3. The YAML configuration file
//  4. Default values
//
// # Environment Variables
//
// All environment variables follow the pattern CUSTCLEAN_<SECTION>_<KEY>:
//
//	CUSTCLEAN_INPUT_FILE=dataset.xlsx
//	CUSTCLEAN_INPUT_SHEET=Sheet1
//	CUSTCLEAN_OUTPUT_FILE=transformed_dataset.xlsx
//	CUSTCLEAN_LOGGING_LEVEL=debug
//	CUSTCLEAN_IMPUTER_SEED=42
//	CUSTCLEAN_TELEMETRY_METRICS_FILE=metrics.prom
//
// # Configuration File
//
// When no path is given, Load looks for config.yaml and configs/config.yaml
// in the working directory:
//
//	input:
//	  path: dataset.xlsx
//	  sheet: Sheet1
//	output:
//	  path: transformed_dataset.xlsx
//	  csv_path: transformed_dataset.csv
//	imputer:
//	  max_iter: 10
//	  seed: 42
//	  estimators: 100
//
// The merged configuration is checked with go-playground/validator before it
// is returned.
package config
