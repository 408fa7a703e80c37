package audio

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// Output pulls audio from a Transport and delivers it somewhere.
type Output interface {
	Close() error
}

// Output types accepted by NewOutput.
const (
	OutputSpeaker = "speaker"
	OutputNull    = "null"
)

// SpeakerSettings configures the device output.
type SpeakerSettings struct {
	BufferMs int `yaml:"buffer_ms" mapstructure:"buffer_ms" default:"100" validate:"gte=10,lte=2000"`
}

// NullSettings configures the headless output.
type NullSettings struct {
	PeriodMs int `yaml:"period_ms" mapstructure:"period_ms" default:"20" validate:"gte=1,lte=1000"`
}

// NewOutput creates the output of the given type pulling from src.
func NewOutput(outputType string, settings map[string]any, src *Transport) (Output, error) {
	zlog.Debug().Msgf("creating audio output: type=%s settings=%+v", outputType, settings)

	switch outputType {
	case OutputSpeaker:
		var s SpeakerSettings
		if err := decodeSettings(settings, &s); err != nil {
			return nil, errors.Wrapf(err, "invalid %s output settings", outputType)
		}
		out, err := NewSpeakerOutput(src, src.DeviceRate(), s)
		if err != nil {
			return nil, err
		}
		return out, nil

	case OutputNull:
		var s NullSettings
		if err := decodeSettings(settings, &s); err != nil {
			return nil, errors.Wrapf(err, "invalid %s output settings", outputType)
		}
		return NewNullOutput(src, src.DeviceRate(), s), nil

	default:
		return nil, errors.Newf("unsupported output type: %s", outputType)
	}
}

func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
