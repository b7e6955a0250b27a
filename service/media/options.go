package media

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DefaultSeparator splits multi-value cells when the job sets none.
const DefaultSeparator = ","

// Options are the batch-level switches carried in a message config.
type Options struct {
	RemoveImages    bool   `mapstructure:"remove_images"`
	RemoveImagesDir bool   `mapstructure:"remove_images_dir"`
	SourceType      string `mapstructure:"source_type"`
	Separator       string `mapstructure:"_import_multiple_value_separator"`
	FieldsEnclosure bool   `mapstructure:"fields_enclosure"`
	ImagesFileDir   string `mapstructure:"import_images_file_dir"`
	DeferredImages  bool   `mapstructure:"deferred_images"`
}

// DecodeOptions reads Options from a job config. Values are weakly typed, so
// "1", 1 and true all switch a flag on. Unknown keys are ignored.
func DecodeOptions(config map[string]interface{}) (Options, error) {
	var opts Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(config); err != nil {
		return opts, fmt.Errorf("%w: config: %v", ErrInvalidMessage, err)
	}
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	return opts, nil
}
