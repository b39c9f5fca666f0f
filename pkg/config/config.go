package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	SeasonFile        string // path to the season file
	RaceID            int    // race to process
	Seed              uint64 // seed for random generators (0 = random)
	ResultFile        string // path to a stored simulation result
	OutputFile        string // write JSON output to this file instead of stdout
	Select            string // JSONPath expression applied to the output
	Follow            bool   // print lap updates while simulating
	Publish           bool   // publish results via NATS
	NatsURL           string // URL of the NATS server
	SubjectPrefix     string // prefix for NATS subjects
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, e.g. "debug:simulator.* info:*"
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry
	TelemetryStdout   bool   // write telemetry data to stderr instead of OTLP endpoint
)
