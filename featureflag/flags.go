package featureflag

type Flag string

const (
	// Disables the PNG heat map of a field slice.
	FlagDisableSlicePlot Flag = "DISABLE_SLICE_PLOT"

	// Disables the module that reads single field samples.
	FlagDisableProbeModule Flag = "DISABLE_PROBE_MODULE"

	// Disables protobuf encoding of the field description.
	FlagDisableProtobufInfo Flag = "DISABLE_PROTOBUF_INFO"
)

// Flags lists the known flags.
var Flags = []Flag{
	FlagDisableSlicePlot,
	FlagDisableProbeModule,
	FlagDisableProtobufInfo,
}
