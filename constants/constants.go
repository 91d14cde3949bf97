package constants

const (
	ServiceName                  = "housepipe"
	StatsCaptureFrequencySeconds = 5
	TimeFormatYearSeconds        = "20060102T150405" // used for human readable file names
	EnvVarPrefix                 = "HP"              // prefixed for environment variables in twelveFactorMode
	EnvVarAwsRegion              = "AWS_REGION"
	EnvVarPgPassword             = "PGPASSWORD"
	NullSentinel                 = `\N`
	ExtractFieldCount            = 12
	BulkLoadBatchSizeDefault     = 10000
	ExportProgressEveryRows      = 50000
	DiagnosticLineMaxChars       = 300
	DiagnosticLineCount          = 3
	TopNDefault                  = 10
	ShowRowsDefault              = 20
	ReportMinSquareDefault       = 60
	ReportLimitDefault           = 25
	ClickHouseUrlDefault         = "http://clickhouse:8123/"
	ClickHouseTableDefault       = "russian_houses"
	PostgresHostDefault          = "postgres_user"
	PostgresUserDefault          = "user"
	PostgresDatabaseDefault      = "test"
	PsqlBinaryDefault            = "psql"
	InputFileDefault             = "/opt/airflow/dags/russian_houses.csv"
	ExtractFileDefault           = "/opt/airflow/dags/processed_data.csv"
	ReportFileDefault            = "/opt/airflow/dags/top_25_houses.csv"
	ActionFuncsCommandRun        = "run"
	ActionFuncsCommandProbe      = "probe"
	ActionFuncsCommandAnalyze    = "analyze"
	ActionFuncsCommandLoad       = "load"
	ActionFuncsCommandReport     = "report"
	ActionFuncsSubCommandCh      = "clickhouse"
	ActionFuncsSubCommandPg      = "postgres"
	ConnectionTypePostgres       = "postgres"
	ConnectionTypeOracle         = "oracle"
	ConnectionTypeSnowflake      = "snowflake"
	ConnectionTypeNetezza        = "netezza"
	ConnectionTypeSqlServer      = "sqlserver"
	EncodingAuto                 = "auto"
	EncodingUtf8                 = "utf-8"
	EncodingUtf16                = "utf-16"
)
