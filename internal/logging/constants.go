package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldKey         = "key"
	FieldPattern     = "pattern"
	FieldMerchant    = "merchant"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldStrategy    = "strategy"
	FieldFrequency   = "frequency"
	FieldConfidence  = "confidence"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldLine        = "line"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldFormat      = "format"
)
