package constants

// Directory names.
const (
	// HomeDir is the hidden directory in the user's home where skillreport keeps logs.
	HomeDir = ".skillreport"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// File names.
const (
	// ProjectConfigName is the name of the configuration file in the project root.
	ProjectConfigName = "skillreport.yaml"

	// CLILogFileName is the name of the CLI log file under HomeDir/LogsDir.
	CLILogFileName = "skillreport.log"
)
