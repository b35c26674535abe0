package exc

const (
	CodeUnknownFatal          = "F0000"
	CodeFileNotFound          = "F0001"
	CodePermissionDenied      = "F0002"
	CodeUnsupportedFileFormat = "F0003"
	CodeSourceTooLarge        = "F0004"

	CodeIllegalCharacter  = "F0100"
	CodeNumberOutOfRange  = "F0101"
	CodeUnexpectedToken   = "F0200"
	CodeUnexpectedEOF     = "F0201"
	CodeDuplicateParam    = "F0300"
	CodeDuplicateFunction = "F0301"
	CodeUndefinedFunction = "F0302"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
