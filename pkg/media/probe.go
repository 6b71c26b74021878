package media

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration runs ffprobe and reads format.duration, rounded to two decimals.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.WithMessage(err, "ffprobe")
	}
	return parseDuration(out)
}

func parseDuration(probeJSON string) (float64, error) {
	result := gjson.Get(probeJSON, "format.duration")
	if !result.Exists() {
		return 0, errors.New("ffprobe output has no format.duration")
	}
	return math.Round(result.Float()*100) / 100, nil
}
