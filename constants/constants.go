package constants

// TmpCSVFile is the name pattern for temporary CSV files staged for DuckDB ingestion.
const TmpCSVFile = "salesetl_*.csv"
