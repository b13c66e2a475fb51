package config

import "custclean/pkg/contracts"

// Application constants
const (
	AppName    = "custclean"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. CUSTCLEAN_INPUT_FILE
	EnvPrefix = "CUSTCLEAN"

	DefaultInputPath   = "dataset.xlsx"
	DefaultSheetName   = "Sheet1"
	DefaultOutputPath  = "transformed_dataset.xlsx"
	DefaultLogFilePath = "logs/custclean.log"

	DefaultUtilizationCap = 1.0

	DefaultMaxIter         = 10
	DefaultTolerance       = 1e-3
	DefaultSeed            = 42
	DefaultEstimators      = 100
	DefaultMinSamplesSplit = 2
	DefaultMinSamplesLeaf  = 1
)

// configFileLocations are searched in order when no config file is given
var configFileLocations = []string{
	"config.yaml",
	"configs/config.yaml",
}
